package engine

// Kind tags the category labels the dashboards ask for by name.
// KindRaw is used for any other label found in a dataset.
type Kind int

const (
	KindRaw Kind = iota
	KindTotalResidents
	KindMaleResidents
	KindFemaleResidents
	KindTotalMalays
	KindMaleMalays
	KindFemaleMalays
	KindTotalChinese
	KindMaleChinese
	KindFemaleChinese
	KindTotalIndians
	KindMaleIndians
	KindFemaleIndians
	KindTotalOthers
	KindMaleOthers
	KindFemaleOthers
)

var kindLabels = map[Kind]string{
	KindTotalResidents:  "Total Residents",
	KindMaleResidents:   "Total Male Residents",
	KindFemaleResidents: "Total Female Residents",
	KindTotalMalays:     "Total Malays",
	KindMaleMalays:      "Total Male Malays",
	KindFemaleMalays:    "Total Female Malays",
	KindTotalChinese:    "Total Chinese",
	KindMaleChinese:     "Total Male Chinese",
	KindFemaleChinese:   "Total Female Chinese",
	KindTotalIndians:    "Total Indians",
	KindMaleIndians:     "Total Male Indians",
	KindFemaleIndians:   "Total Female Indians",
	KindTotalOthers:     "Other Ethnic Groups (Total)",
	KindMaleOthers:      "Other Ethnic Groups (Males)",
	KindFemaleOthers:    "Other Ethnic Groups (Females)",
}

var labelKinds = func() map[string]Kind {
	m := make(map[string]Kind, len(kindLabels))
	for k, l := range kindLabels {
		m[l] = k
	}
	return m
}()

// String returns the dataset label for known kinds and "raw" otherwise.
func (k Kind) String() string {
	if l, ok := kindLabels[k]; ok {
		return l
	}
	return "raw"
}

// Category identifies a population subgroup. The zero value is an empty raw label.
type Category struct {
	kind  Kind
	label string
}

// Known returns the category for a known kind. It panics on KindRaw or an
// undefined kind since those have no fixed label.
func Known(k Kind) Category {
	l, ok := kindLabels[k]
	if !ok {
		panic("engine: Known called with a kind that has no label")
	}
	return Category{kind: k, label: l}
}

// Raw wraps an arbitrary label. Labels matching a known kind are tagged with it.
func Raw(label string) Category {
	if k, ok := labelKinds[label]; ok {
		return Category{kind: k, label: label}
	}
	return Category{kind: KindRaw, label: label}
}

func (c Category) Kind() Kind     { return c.kind }
func (c Category) Label() string  { return c.label }
func (c Category) IsKnown() bool  { return c.kind != KindRaw }
func (c Category) String() string { return c.label }

// Gender selects one side of a gendered category pair.
type Gender int

const (
	Male Gender = iota
	Female
)

func (g Gender) String() string {
	if g == Female {
		return "Female"
	}
	return "Male"
}

// EthnicGroup is one of the four groups the dataset breaks residents into.
type EthnicGroup int

const (
	Malays EthnicGroup = iota
	Chinese
	Indians
	OtherEthnicGroups
)

var ethnicKinds = map[EthnicGroup][3]Kind{
	Malays:            {KindTotalMalays, KindMaleMalays, KindFemaleMalays},
	Chinese:           {KindTotalChinese, KindMaleChinese, KindFemaleChinese},
	Indians:           {KindTotalIndians, KindMaleIndians, KindFemaleIndians},
	OtherEthnicGroups: {KindTotalOthers, KindMaleOthers, KindFemaleOthers},
}

// EthnicGroups lists the groups in dashboard tab order.
func EthnicGroups() []EthnicGroup {
	return []EthnicGroup{Malays, Chinese, Indians, OtherEthnicGroups}
}

func (e EthnicGroup) String() string {
	switch e {
	case Malays:
		return "Malays"
	case Chinese:
		return "Chinese"
	case Indians:
		return "Indians"
	case OtherEthnicGroups:
		return "Other Ethnic Groups"
	}
	return "unknown"
}

// Total returns the all-genders category for the group.
func (e EthnicGroup) Total() Category { return Known(ethnicKinds[e][0]) }

// Of returns the group's category for one gender.
func (e EthnicGroup) Of(g Gender) Category {
	if g == Female {
		return Known(ethnicKinds[e][2])
	}
	return Known(ethnicKinds[e][1])
}

// Residents returns the all-groups category for one gender.
func Residents(g Gender) Category {
	if g == Female {
		return Known(KindFemaleResidents)
	}
	return Known(KindMaleResidents)
}
