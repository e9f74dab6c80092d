package components

// Field is the view of one bound question handed to component templates.
// Label and Description are sanitized HTML and emitted unescaped; everything
// else is plain text escaped by the template engine.
type Field struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	ControlID   string   `json:"controlId"`
	Widget      string   `json:"widget"`
	Type        string   `json:"type"`
	InputType   string   `json:"inputType"`
	Label       string   `json:"label"`
	Description string   `json:"description"`
	Placeholder string   `json:"placeholder"`
	Required    bool     `json:"required"`
	Value       string   `json:"value"`
	Options     []Option `json:"options"`
	Files       []File   `json:"files"`
	Region      Region   `json:"region"`
	Errors      []string `json:"errors"`
	Invalid     bool     `json:"invalid"`
	ErrorID     string   `json:"errorId"`
}

// Option is one choice of a SELECT, RADIO or CHECKBOX question.
type Option struct {
	Index    int    `json:"index"`
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
	ID       string `json:"id"`
}

// File is an attachment kept from an earlier request.
type File struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// Region carries the current parts and the input names of a REGION question.
type Region struct {
	Sido        string `json:"sido"`
	Sigungu     string `json:"sigungu"`
	Dong        string `json:"dong"`
	Code        string `json:"code"`
	SidoName    string `json:"sidoName"`
	SigunguName string `json:"sigunguName"`
	DongName    string `json:"dongName"`
	CodeName    string `json:"codeName"`
}
