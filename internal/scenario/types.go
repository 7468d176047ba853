package scenario

// Capture extracts a value from a response body into a named variable.
type Capture struct {
	Variable string
	Path     string
	Match    string // "first" or "all"
}

// Assertions collects the response checks attached to one sampler.
// A bundle with no populated field is represented as a nil *Assertions.
type Assertions struct {
	Status       *int
	Body         map[string]any
	BodyContains []string
	Headers      map[string]string
}

// Active reports whether any check is populated.
func (a *Assertions) Active() bool {
	if a == nil {
		return false
	}
	return a.Status != nil || len(a.Body) > 0 || len(a.BodyContains) > 0 || len(a.Headers) > 0
}

// Loop describes repetition of a step. Extraction currently never produces
// one: parent-controller loop parameters are not tracked per sampler.
type Loop struct {
	Count         *int
	While         *string
	MaxIterations int
	Interval      *int
	Variable      *string
}

// DefaultMaxIterations is the safety cap applied when a loop carries none.
const DefaultMaxIterations = 100

// FileUpload is one multipart file attachment.
type FileUpload struct {
	Path     string
	Param    string
	MimeType string // empty means unspecified
}

// Sampler is the intermediate representation of one HTTP request pulled out
// of the plan. Payload and Params are mutually exclusive: at most one is
// populated.
type Sampler struct {
	Name     string
	Method   string
	Path     string
	Enabled  bool
	Domain   string // overrides; empty means resolve against defaults downstream
	Port     string
	Protocol string

	Payload   any
	Params    map[string]string
	Headers   map[string]string
	Files     []FileUpload
	Captures  []Capture
	Asserts   *Assertions
	Loop      *Loop
	ThinkTime *int // milliseconds
	Random    bool
}

// Settings holds thread-group execution parameters.
// Loops: nil means run once, 0 means infinite.
type Settings struct {
	Threads int
	RampUp  int
	Loops   *int
	Duration *int
	BaseURL string
}

// DefaultSettings returns the settings used when the plan specifies nothing.
func DefaultSettings() Settings {
	return Settings{Threads: 1, RampUp: 0}
}

// Step is one entry in the output scenario. A nil Endpoint designates a
// pause-only step carrying nothing but a think time.
type Step struct {
	Name      string
	Endpoint  *string // "METHOD /path"
	Enabled   bool
	Headers   map[string]string
	Params    map[string]string
	Payload   any
	Files     []FileUpload
	Captures  []any // string or map forms, see Builder
	Assert    map[string]any
	Loop      map[string]any
	ThinkTime *int
	Random    bool
}

// Scenario is the complete document handed to the writer.
type Scenario struct {
	Name        string
	Description string
	Settings    Settings
	Variables   map[string]string
	Steps       []Step
}
