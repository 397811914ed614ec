package catalog

// The YAML document model. A catalogue may be split across several files
// and several documents per file; names are global across all of them.
//
//	tables:
//	  "3035":
//	    codes: {BY: Buyer, SU: Supplier}
//	composites:
//	  C082:
//	    - {name: id, required: true, maxlen: 35}
//	    - {name: agency, code: "3055"}
//	segments:
//	  NAD:
//	    fields:
//	      - {name: qualifier, code: "3035", card: one}
//	      - {name: party, composite: C082}
//	messages:
//	  ORDERS:
//	    members:
//	      - {segment: UNH, card: one}
//	      - {group: SG2, card: "*", max: 99, members: [{segment: NAD, card: one}]}

type fileSpec struct {
	Tables     map[string]tableSpec       `yaml:"tables"`
	Composites map[string][]componentSpec `yaml:"composites"`
	Segments   map[string]segmentSpec     `yaml:"segments"`
	Groups     map[string]groupSpec       `yaml:"groups"`
	Messages   map[string]messageSpec     `yaml:"messages"`
}

type tableSpec struct {
	Pad   string            `yaml:"pad"`
	Codes map[string]string `yaml:"codes"`
}

type componentSpec struct {
	Name     string `yaml:"name"`
	Required bool   `yaml:"required"`
	Code     string `yaml:"code"` // code table name
	Numeric  bool   `yaml:"numeric"`
	MaxLen   int    `yaml:"maxlen"`
}

// fieldSpec is a component spec plus positional options. Card defaults to
// optional; Composite references an entry of composites.
type fieldSpec struct {
	componentSpec `yaml:",inline"`
	Card          string `yaml:"card"`
	Max           int    `yaml:"max"`
	Composite     string `yaml:"composite"`
}

type segmentSpec struct {
	Name   string      `yaml:"name"`
	Fields []fieldSpec `yaml:"fields"`
}

// memberSpec names a segment or a group. A group member either carries
// its own members inline or references an entry of groups. Card defaults
// to one.
type memberSpec struct {
	Segment string       `yaml:"segment"`
	Group   string       `yaml:"group"`
	Name    string       `yaml:"name"`
	Card    string       `yaml:"card"`
	Max     int          `yaml:"max"`
	Members []memberSpec `yaml:"members"`
}

type groupSpec struct {
	Members []memberSpec `yaml:"members"`
}

type messageSpec struct {
	Delimiters *delimSpec   `yaml:"delimiters"`
	Members    []memberSpec `yaml:"members"`
	Rules      []ruleSpec   `yaml:"rules"`
}

// ruleSpec declares one cross-field rule; exactly one of unique,
// required, note and if is set.
//
//	rules:
//	  - {unique: {collection: /SG28, key: LIN/line}}
//	  - {required: /BGM/number}
//	  - {note: D5, segment: /SG2/NAD, items: [name, street]}
//	  - {if: {path: /BGM/name/code, op: eq, value: "230"}, then: [{required: /RFF}]}
type ruleSpec struct {
	Unique   *uniqueSpec `yaml:"unique"`
	Required string      `yaml:"required"`
	Note     string      `yaml:"note"`
	Segment  string      `yaml:"segment"`
	Items    []string    `yaml:"items"`
	If       *condSpec   `yaml:"if"`
	Then     []ruleSpec  `yaml:"then"`
}

type uniqueSpec struct {
	Collection string `yaml:"collection"`
	Key        string `yaml:"key"`
}

// condSpec compares the value at path; op "present" ignores value.
type condSpec struct {
	Path  string `yaml:"path"`
	Op    string `yaml:"op"`
	Value string `yaml:"value"`
}

type delimSpec struct {
	Component string `yaml:"component"`
	Element   string `yaml:"element"`
	Segment   string `yaml:"segment"`
}
