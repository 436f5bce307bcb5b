package domain

// HTTPMethod represents an HTTP method (e.g., GET, POST).
type HTTPMethod string

const (
	MethodGet    HTTPMethod = "GET"
	MethodPost   HTTPMethod = "POST"
	MethodPut    HTTPMethod = "PUT"
	MethodPatch  HTTPMethod = "PATCH"
	MethodDelete HTTPMethod = "DELETE"
)

// BodyType represents the type of payload for a case's request body.
type BodyType string

const (
	BodyNone BodyType = "none"
	BodyJSON BodyType = "json"
	BodyRaw  BodyType = "raw"
)

// Headers is a map representation of HTTP headers.
type Headers map[string]string

// Query is a map representation of URL query parameters.
type Query map[string]string

// BodySpec describes a case's request body.
// JSON is the common path; Raw exists for malformed-payload cases.
type BodySpec struct {
	Type        BodyType
	JSON        map[string]any
	Raw         string
	ContentType string // Optional override (useful for raw payloads).
}

// AuthMode selects how the Authorization header is built for a case.
type AuthMode string

const (
	// AuthBearer sends "Authorization: Bearer <token>", taking the token
	// from the target unless AuthSpec.Token overrides it.
	AuthBearer AuthMode = "bearer"
	// AuthNone sends no Authorization header at all.
	AuthNone AuthMode = "none"
)

// AuthSpec describes the credentials a case is sent with. The zero value
// means AuthBearer with the target's token, which is what almost every
// case wants; unauthorized-path cases set Mode or Token explicitly.
type AuthSpec struct {
	Mode  AuthMode
	Token string // Literal override; may contain {{vars}}.
}

// JSONPathCheck defines a body-shape check at a JSONPath expression.
type JSONPathCheck struct {
	Exists   bool
	Type     string // "string", "number", "boolean", "array", "object"
	Eq       *string
	Contains *string
	Matches  *string
}

// ExpectSpec defines the conformance expectations for a case.
//
// StatusIn is a tolerance set: the observed status must be a member.
// This mirrors how API contracts under test often admit several codes
// for the same failure class (e.g. 400 or 422 for invalid input).
type ExpectSpec struct {
	StatusIn     []int
	ContentType  string // Substring match against the Content-Type header (optional).
	MaxLatencyMS *int
	JSONPath     map[string]JSONPathCheck
}

// ExtractSpec defines variable extraction from response bodies.
// Map: variableName -> jsonpathExpression
type ExtractSpec map[string]string

// CaseSpec describes a single conformance case: one request variation
// against one endpoint plus its expectations and extraction rules.
type CaseSpec struct {
	Name    string
	Method  HTTPMethod
	Path    string // Joined to the target base URL; may contain {{vars}}.
	Query   Query
	Headers Headers
	Auth    AuthSpec
	Body    BodySpec

	Expect  ExpectSpec
	Extract ExtractSpec
}

// Suite groups the cases exercising one endpoint (Git-friendly unit).
type Suite struct {
	Name string

	// Vars are default variables available to all cases in the suite.
	// These can be overridden by target vars and runtime extractions.
	Vars Vars

	Cases []CaseSpec
}

// SuiteRef is a lightweight reference to a suite file on disk.
type SuiteRef struct {
	Name string
	Path string
}
