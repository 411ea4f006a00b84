package intercept

import "encoding/json"

// ErroneousDigit flags a 5, 7 or 9 digit run found in a message.
// It serializes as {"<term>": <length>}.
type ErroneousDigit struct {
	Term   string
	Length int
}

func (e ErroneousDigit) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]int{e.Term: e.Length})
}

// IncorrectCommodity is a labelled code that is missing from the commodity table.
// It serializes as {"<term>": {"verbatim": ..., "commodity": ...}}.
type IncorrectCommodity struct {
	Term      string
	Verbatim  string
	Commodity string
}

func (c IncorrectCommodity) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]map[string]string{
		c.Term: {"verbatim": c.Verbatim, "commodity": c.Commodity},
	})
}

// UselessMessage serializes as {"<term>": "<message>"}.
type UselessMessage struct {
	Term    string
	Message string
}

func (u UselessMessage) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{u.Term: u.Message})
}

// Diagnostics accumulates the batch-level findings of a run. It is not safe
// for concurrent use: give each worker its own and Merge them afterwards.
type Diagnostics struct {
	ErroneousDigits      []ErroneousDigit
	IncorrectCommodities []IncorrectCommodity
	UselessMessages      []UselessMessage
}

func NewDiagnostics() *Diagnostics {
	return &Diagnostics{
		ErroneousDigits:      []ErroneousDigit{},
		IncorrectCommodities: []IncorrectCommodity{},
		UselessMessages:      []UselessMessage{},
	}
}

func (d *Diagnostics) AddErroneousDigit(term string, length int) {
	d.ErroneousDigits = append(d.ErroneousDigits, ErroneousDigit{Term: term, Length: length})
}

func (d *Diagnostics) AddIncorrectCommodity(term, verbatim, commodity string) {
	d.IncorrectCommodities = append(d.IncorrectCommodities, IncorrectCommodity{Term: term, Verbatim: verbatim, Commodity: commodity})
}

func (d *Diagnostics) AddUselessMessage(term, message string) {
	d.UselessMessages = append(d.UselessMessages, UselessMessage{Term: term, Message: message})
}

// Merge appends other's entries after d's, preserving order.
func (d *Diagnostics) Merge(other *Diagnostics) {
	if other == nil {
		return
	}
	d.ErroneousDigits = append(d.ErroneousDigits, other.ErroneousDigits...)
	d.IncorrectCommodities = append(d.IncorrectCommodities, other.IncorrectCommodities...)
	d.UselessMessages = append(d.UselessMessages, other.UselessMessages...)
}
