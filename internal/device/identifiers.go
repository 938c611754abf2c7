package device

import (
	"fmt"

	"github.com/tamzrod/cctalk-driver/internal/cctalk"
)

const defaultMaxPositions = 16

// fetchIdentifiers reads every coin/bill identifier the device reports,
// resolving country scaling per §4.5.3: bill validators query the device
// with GetCountryScalingFactor; coin acceptors only ever consult the
// caller-supplied table passed to New (never a hardcoded country).
func (s *Supervisor) fetchIdentifiers() (map[uint8]cctalk.Identifier, error) {
	if s.category != cctalk.CategoryCoinAcceptor && s.category != cctalk.CategoryBillValidator {
		return nil, fmt.Errorf("%w: cannot fetch identifiers for device category %s", cctalk.ErrState, s.category)
	}

	maxPositions := uint8(defaultMaxPositions)
	if s.category == cctalk.CategoryBillValidator {
		if data, err := s.ccCall(cctalk.HeaderGetVariableSet, nil, true); err == nil && len(data) >= 2 {
			if data[0] > 1 {
				maxPositions = data[0]
			}
		}
		// Failure here is non-fatal: GetVariableSet is an optional command and
		// the fallback of 16 positions is always tried.
	}

	getIDHeader := cctalk.HeaderGetCoinId
	if s.category == cctalk.CategoryBillValidator {
		getIDHeader = cctalk.HeaderGetBillId
	}

	identifiers := make(map[uint8]cctalk.Identifier)
	resolvedScaling := make(map[string]cctalk.CountryScaling)

	for pos := uint8(1); pos <= maxPositions; pos++ {
		data, err := s.ccCall(getIDHeader, []byte{pos}, true)
		if err != nil {
			return nil, err
		}
		raw := string(data)
		if cctalk.IsEmptySlot(raw) {
			continue
		}
		id, ok := cctalk.ParseIdentifier(raw)
		if !ok {
			continue
		}

		if scaling, ok := resolvedScaling[id.Country]; ok {
			id.Scaling = scaling
		} else if scaling, ok := s.resolveCountryScaling(id.Country); ok {
			resolvedScaling[id.Country] = scaling
			id.Scaling = scaling
		}

		identifiers[pos] = id
	}

	if len(identifiers) > 0 {
		s.logf("* %d identifier(s) received", len(identifiers))
	} else {
		s.logf("* no non-empty identifiers received")
	}
	return identifiers, nil
}

// resolveCountryScaling looks up scaling for a country; fetchIdentifiers
// caches each successful lookup for the rest of the call, and a failed
// lookup is tried again for the next identifier of that country. Coin
// acceptors use the caller-supplied table only
// (the Open Question on hardcoded country data is resolved against no
// hardcoding — see DESIGN.md); bill validators query the device.
func (s *Supervisor) resolveCountryScaling(country string) (cctalk.CountryScaling, bool) {
	if country == "" {
		return cctalk.CountryScaling{}, false
	}

	if s.category == cctalk.CategoryCoinAcceptor {
		scaling, ok := s.coinCountryScaling[country]
		return scaling, ok
	}

	data, err := s.ccCall(cctalk.HeaderGetCountryScalingFactor, []byte(country), true)
	if err != nil || len(data) != 3 {
		if err == nil {
			s.logf("! invalid scaling data for country %s", country)
		}
		return cctalk.CountryScaling{}, false
	}
	scaling := cctalk.CountryScaling{
		ScalingFactor: uint16(data[0]) + uint16(data[1])*256,
		DecimalPlaces: data[2],
	}
	if !scaling.Valid() {
		s.logf("* country scaling data for %s: empty", country)
		return cctalk.CountryScaling{}, false
	}
	s.logf("* country scaling data for %s: factor %d, decimals %d", country, scaling.ScalingFactor, scaling.DecimalPlaces)
	return scaling, true
}
