package models

// Subject is the identity and demographic metadata of the person being
// assessed. It is supplied by the caller and never modified by the engine.
type Subject struct {
	Name     string `json:"name" yaml:"name"`
	Age      int    `json:"age,omitempty" yaml:"age,omitempty"`
	Grade    string `json:"grade,omitempty" yaml:"grade,omitempty"`
	Assessor string `json:"assessor,omitempty" yaml:"assessor,omitempty"`
	Date     string `json:"date,omitempty" yaml:"date,omitempty"`
}
