package conformance

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aalvaropc/taskproof/internal/domain"
)

// The lifecycle test chains create -> get -> update -> deactivate ->
// activate -> delete through variable extraction, the same way a YAML
// suite threads {{schedule_id}} between cases.
func TestSchedules_Lifecycle(t *testing.T) {
	h := newHarness(t)

	created := h.Check(domain.CaseSpec{
		Name:   "create schedule for lifecycle",
		Method: domain.MethodPost,
		Path:   "/api/v1/schedules",
		Body:   domain.BodySpec{Type: domain.BodyJSON, JSON: validSchedulePayload()},
		Expect: withJSONPath(jsonExpect(200), map[string]domain.JSONPathCheck{
			"$.id": {Matches: strPtr("^sched_[a-z0-9]+$")},
		}),
		Extract: domain.ExtractSpec{"schedule_id": "$.id"},
	})

	extracted := extractVars(t, created.Response.Body, domain.ExtractSpec{"schedule_id": "$.id"})
	require.NotEmpty(t, extracted["schedule_id"])
	h.SetVar("schedule_id", extracted["schedule_id"])

	h.Check(domain.CaseSpec{
		Name:   "created schedule is readable",
		Method: domain.MethodGet,
		Path:   "/api/v1/schedules/{{schedule_id}}",
		Expect: withJSONPath(jsonExpect(200), map[string]domain.JSONPathCheck{
			"$.name":   {Eq: strPtr("Test Schedule")},
			"$.active": {Eq: strPtr("true")},
		}),
	})

	h.Check(domain.CaseSpec{
		Name:   "update replaces the schedule fields",
		Method: domain.MethodPut,
		Path:   "/api/v1/schedules/{{schedule_id}}",
		Body: domain.BodySpec{Type: domain.BodyJSON, JSON: map[string]any{
			"name": "Renamed Schedule",
			"type": "IMPERATIVE",
		}},
		Expect: withJSONPath(jsonExpect(200), map[string]domain.JSONPathCheck{
			"$.name": {Eq: strPtr("Renamed Schedule")},
		}),
	})

	h.Check(domain.CaseSpec{
		Name:   "deactivate flips active off",
		Method: domain.MethodPost,
		Path:   "/api/v1/schedules/{{schedule_id}}/deactivate",
		Expect: withJSONPath(jsonExpect(200), map[string]domain.JSONPathCheck{
			"$.active": {Eq: strPtr("false")},
		}),
	})

	h.Check(domain.CaseSpec{
		Name:   "activate flips active on",
		Method: domain.MethodPost,
		Path:   "/api/v1/schedules/{{schedule_id}}/activate",
		Expect: withJSONPath(jsonExpect(200), map[string]domain.JSONPathCheck{
			"$.active": {Eq: strPtr("true")},
		}),
	})

	h.Check(domain.CaseSpec{
		Name:   "delete removes the schedule",
		Method: domain.MethodDelete,
		Path:   "/api/v1/schedules/{{schedule_id}}",
		Expect: jsonExpect(200),
	})

	h.Check(domain.CaseSpec{
		Name:   "deleted schedule is gone",
		Method: domain.MethodGet,
		Path:   "/api/v1/schedules/{{schedule_id}}",
		Expect: jsonExpect(404),
	})
}

func TestSchedules_GetByID(t *testing.T) {
	h := newHarness(t)

	h.Check(domain.CaseSpec{
		Name:   "seeded schedule is readable",
		Method: domain.MethodGet,
		Path:   "/api/v1/schedules/" + scheduleSeeded,
		Expect: withJSONPath(jsonExpect(200), map[string]domain.JSONPathCheck{
			"$.id":   {Eq: strPtr(scheduleSeeded)},
			"$.type": {Eq: strPtr("IMPERATIVE")},
		}),
	})

	h.Check(domain.CaseSpec{
		Name:   "malformed schedule id is rejected",
		Method: domain.MethodGet,
		Path:   "/api/v1/schedules/sched_1234!!!",
		Expect: jsonExpect(400, 422),
	})

	h.Check(domain.CaseSpec{
		Name:   "oversized schedule id is rejected",
		Method: domain.MethodGet,
		Path:   "/api/v1/schedules/sched_" + strings.Repeat("a", 500),
		Expect: jsonExpect(400, 404, 422),
	})

	h.Check(domain.CaseSpec{
		Name:   "unknown schedule is not found",
		Method: domain.MethodGet,
		Path:   "/api/v1/schedules/sched_doesnotexist",
		Expect: withJSONPath(jsonExpect(404), map[string]domain.JSONPathCheck{
			"$.error": {Exists: true},
		}),
	})

	h.Check(domain.CaseSpec{
		Name:   "activate on unknown schedule is not found",
		Method: domain.MethodPost,
		Path:   "/api/v1/schedules/sched_doesnotexist/activate",
		Expect: jsonExpect(404),
	})

	h.Check(domain.CaseSpec{
		Name:   "activate without token is unauthorized",
		Method: domain.MethodPost,
		Path:   "/api/v1/schedules/" + scheduleSeeded + "/activate",
		Auth:   domain.AuthSpec{Mode: domain.AuthNone},
		Expect: jsonExpect(401, 403),
	})

	h.Check(domain.CaseSpec{
		Name:   "delete with malformed id is rejected",
		Method: domain.MethodDelete,
		Path:   "/api/v1/schedules/not-a-schedule-id",
		Expect: jsonExpect(400, 422),
	})
}
