package clmm

// Status names an Outcome variant on the wire.
type Status string

const (
	StatusWaiting Status = "waiting"
	StatusError   Status = "error"
	StatusSuccess Status = "success"
)

// Outcome is the result of Engine.Evaluate: exactly one of Waiting, Invalid or
// Success.
type Outcome interface {
	Status() Status
	outcome()
}

// Waiting means required inputs or prices are not available yet. It is a
// normal state while a form is being filled in.
type Waiting struct {
	Missing []string `json:"missing"`
}

// Invalid means every input is present but the combination is rejected.
type Invalid struct {
	Reason string `json:"message"`
	Err    error  `json:"-"`
}

// Success carries the computed position.
type Success struct {
	Position Position `json:"data"`
}

func (Waiting) Status() Status { return StatusWaiting }
func (Invalid) Status() Status { return StatusError }
func (Success) Status() Status { return StatusSuccess }

func (Waiting) outcome() {}
func (Invalid) outcome() {}
func (Success) outcome() {}

func (i Invalid) Error() string { return i.Reason }
func (i Invalid) Unwrap() error { return i.Err }

// Envelope is the JSON shape of an Outcome: a status tag plus the variant body.
type Envelope struct {
	Status  Status    `json:"status"`
	Missing []string  `json:"missing,omitempty"`
	Message string    `json:"message,omitempty"`
	Data    *Position `json:"data,omitempty"`
}

// Wrap converts an Outcome into its JSON envelope.
func Wrap(o Outcome) Envelope {
	env := Envelope{Status: o.Status()}
	switch v := o.(type) {
	case Waiting:
		env.Missing = v.Missing
	case Invalid:
		env.Message = v.Reason
	case Success:
		pos := v.Position
		env.Data = &pos
	}
	return env
}
