package conformance

import (
	"testing"

	"github.com/aalvaropc/taskproof/internal/domain"
)

func TestTimezones_List(t *testing.T) {
	h := newHarness(t)

	h.Check(domain.CaseSpec{
		Name:   "default listing includes UTC",
		Method: domain.MethodGet,
		Path:   "/api/v1/timezones",
		Expect: withJSONPath(jsonExpect(200), map[string]domain.JSONPathCheck{
			"$.timezones": {Type: "array", Contains: strPtr("UTC")},
		}),
	})

	h.Check(domain.CaseSpec{
		Name:   "excludeUtc=false behaves like the default",
		Method: domain.MethodGet,
		Path:   "/api/v1/timezones",
		Query:  domain.Query{"excludeUtc": "false"},
		Expect: withJSONPath(jsonExpect(200), map[string]domain.JSONPathCheck{
			"$.timezones": {Type: "array"},
		}),
	})

	h.Check(domain.CaseSpec{
		Name:   "excludeUtc=true removes UTC from the listing",
		Method: domain.MethodGet,
		Path:   "/api/v1/timezones",
		Query:  domain.Query{"excludeUtc": "true"},
		Expect: withJSONPath(jsonExpect(200), map[string]domain.JSONPathCheck{
			"$.timezones":    {Type: "array"},
			"$.timezones[0]": {Eq: strPtr("Africa/Cairo")},
		}),
	})

	h.Check(domain.CaseSpec{
		Name:   "non-boolean excludeUtc is rejected",
		Method: domain.MethodGet,
		Path:   "/api/v1/timezones",
		Query:  domain.Query{"excludeUtc": "not-a-boolean"},
		Expect: jsonExpect(400, 422),
	})

	h.Check(domain.CaseSpec{
		Name:   "missing token is unauthorized",
		Method: domain.MethodGet,
		Path:   "/api/v1/timezones",
		Auth:   domain.AuthSpec{Mode: domain.AuthNone},
		Expect: jsonExpect(401, 403),
	})
}
