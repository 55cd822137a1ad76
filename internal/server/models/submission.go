package models

// Submission is the raw registration form as received from a client. Every
// field is kept as the submitted string; absent fields are empty.
type Submission struct {
	Username    string `form:"username" json:"username"`
	Gender      string `form:"Gender" json:"Gender"`
	Email       string `form:"email" json:"email"`
	Age         string `form:"Age" json:"Age"`
	Weight      string `form:"weight" json:"weight"`
	Height      string `form:"height" json:"height"`
	PulseRate   string `form:"pulse_rate" json:"pulse_rate"`
	Temperature string `form:"Temperature" json:"Temperature"`
}

// Fields returns the submission values paired with their form names, in
// form order.
func (s Submission) Fields() []Field {
	return []Field{
		{Name: "username", Value: s.Username},
		{Name: "Gender", Value: s.Gender},
		{Name: "email", Value: s.Email},
		{Name: "Age", Value: s.Age},
		{Name: "weight", Value: s.Weight},
		{Name: "height", Value: s.Height},
		{Name: "pulse_rate", Value: s.PulseRate},
		{Name: "Temperature", Value: s.Temperature},
	}
}

type Field struct {
	Name  string
	Value string
}
