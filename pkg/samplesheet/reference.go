package samplesheet

// Reference is a genome choice of the reference column.
type Reference struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
}

// References are the genomes offered by the reference column.
var References = []Reference{
	{Key: "hg19", Label: "human"},
	{Key: "mm9", Label: "mouse"},
	{Key: "dm6", Label: "fly"},
	{Key: "danRer6", Label: "zebrafish"},
	{Key: "rn1", Label: "rat"},
	{Key: "cel1", Label: "worm"},
	{Key: "sacCer3", Label: "yeast"},
	{Key: "__other__", Label: "other"},
}

var (
	labelToKey = make(map[string]string, len(References))
	keyToLabel = make(map[string]string, len(References))
)

func init() {
	for _, r := range References {
		labelToKey[r.Label] = r.Key
		keyToLabel[r.Key] = r.Label
	}
}

// ReferenceKey maps a grid label to its payload key. Unknown values are
// returned unchanged.
func ReferenceKey(label string) string {
	if key, ok := labelToKey[label]; ok {
		return key
	}
	return label
}

// ReferenceLabel maps a payload key to its grid label. Unknown values are
// returned unchanged.
func ReferenceLabel(key string) string {
	if label, ok := keyToLabel[key]; ok {
		return label
	}
	return key
}

// ReferenceLabels returns the choices of the reference column.
func ReferenceLabels() []string {
	labels := make([]string, len(References))
	for i, r := range References {
		labels[i] = r.Label
	}
	return labels
}
