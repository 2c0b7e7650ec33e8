package model

// Language is one row of the bundled language table.
type Language struct {
	Code       string `json:"code"`
	Language   string `json:"language"`
	NativeName string `json:"native_name"`
}

// Region is one row of the bundled region table.
type Region struct {
	Code    string `json:"code"`
	HL      string `json:"hl"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

// SelectOption is a single entry of a UI enumeration. The first option of
// every category is the blank placeholder {Value:"", Label:"--"}.
type SelectOption struct {
	Value     string `json:"value"`
	Label     string `json:"label"`
	IsDefault bool   `json:"is_default"`
}
