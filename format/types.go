package format

type (
	Class           int32
	DataType        int32
	Frequency       int32
	Basis           int32
	Observed        int32
	AccessMode      int32
	CompressionType uint8
)

const (
	ClassSeries        Class = 1 // ClassSeries is a time-indexed sequence of values.
	ClassScalar        Class = 2 // ClassScalar is a single value without a time index.
	ClassFormula       Class = 3 // ClassFormula is a catalog-only formula entry.
	ClassGlobalName    Class = 5 // ClassGlobalName is a catalog-only global name entry.
	ClassGlobalFormula Class = 6 // ClassGlobalFormula is a catalog-only global formula entry.
)

const (
	TypeUndefined DataType = 0 // TypeUndefined marks an object without a declared value type.
	TypeNumeric   DataType = 1 // TypeNumeric holds single precision floats.
	TypeNameList  DataType = 2 // TypeNameList holds a list of names.
	TypeBoolean   DataType = 3 // TypeBoolean holds booleans.
	TypeString    DataType = 4 // TypeString holds variable length strings.
	TypePrecision DataType = 5 // TypePrecision holds double precision floats.
	TypeDate      DataType = 8 // TypeDate is the first date type; date types share codes with frequencies.
)

// Store-native frequency codes. Date-valued types use the same codes.
const (
	FreqUndefined       Frequency = 0
	FreqCase            Frequency = 1
	FreqDaily           Frequency = 8
	FreqBusiness        Frequency = 9
	FreqWeeklySunday    Frequency = 16
	FreqWeeklyMonday    Frequency = 17
	FreqWeeklyTuesday   Frequency = 18
	FreqWeeklyWednesday Frequency = 19
	FreqWeeklyThursday  Frequency = 20
	FreqWeeklyFriday    Frequency = 21
	FreqWeeklySaturday  Frequency = 22
	FreqTenDay          Frequency = 32
	FreqTwiceMonthly    Frequency = 48
	FreqMonthly         Frequency = 129
	FreqQuarterlyDec    Frequency = 171
	FreqSemiannualDec   Frequency = 187
	FreqAnnualDec       Frequency = 203
	FreqMillisecond     Frequency = 225
	FreqSecond          Frequency = 226
	FreqMinute          Frequency = 227
	FreqHour            Frequency = 228
)

const (
	BasisUndefined Basis = 0
	BasisDaily     Basis = 1
	BasisBusiness  Basis = 2
)

const (
	ObservedUnbound   Observed = 0
	ObservedBeginning Observed = 1
	ObservedEnd       Observed = 2
	ObservedAveraged  Observed = 3
	ObservedSummed    Observed = 4
	ObservedAnnual    Observed = 5
	ObservedFormula   Observed = 6
	ObservedHigh      Observed = 7
	ObservedLow       Observed = 8
)

const (
	ModeRead   AccessMode = 1 // ModeRead opens an existing database read-only.
	ModeCreate AccessMode = 2 // ModeCreate creates a new database.
	ModeUpdate AccessMode = 4 // ModeUpdate opens an existing database for update.
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

// IsDate reports whether the type holds date values.
func (t DataType) IsDate() bool {
	return t >= TypeDate
}

// Frequency returns the frequency of a date type, or FreqUndefined otherwise.
func (t DataType) Frequency() Frequency {
	if !t.IsDate() {
		return FreqUndefined
	}

	return Frequency(t)
}

// DateType returns the date type whose values are dates of the given frequency.
func DateType(freq Frequency) DataType {
	return DataType(freq)
}

// IsValid reports whether f is a known store frequency code.
func (f Frequency) IsValid() bool {
	_, ok := frequencyNames[f]
	return ok && f != FreqUndefined
}

// IsIntraday reports whether periods of f are shorter than a day.
func (f Frequency) IsIntraday() bool {
	switch f { //nolint: exhaustive
	case FreqHour, FreqMinute, FreqSecond, FreqMillisecond:
		return true
	default:
		return false
	}
}

func (c Class) String() string {
	switch c {
	case ClassSeries:
		return "Series"
	case ClassScalar:
		return "Scalar"
	case ClassFormula:
		return "Formula"
	case ClassGlobalName:
		return "GlobalName"
	case ClassGlobalFormula:
		return "GlobalFormula"
	default:
		return "Unknown"
	}
}

// HasPayload reports whether objects of class c carry data.
func (c Class) HasPayload() bool {
	return c == ClassSeries || c == ClassScalar
}

func (t DataType) String() string {
	switch t {
	case TypeUndefined:
		return "Undefined"
	case TypeNumeric:
		return "Numeric"
	case TypeNameList:
		return "NameList"
	case TypeBoolean:
		return "Boolean"
	case TypeString:
		return "String"
	case TypePrecision:
		return "Precision"
	default:
		if t.IsDate() {
			return "Date(" + t.Frequency().String() + ")"
		}

		return "Unknown"
	}
}

var frequencyNames = map[Frequency]string{
	FreqUndefined:       "Undefined",
	FreqCase:            "Case",
	FreqDaily:           "Daily",
	FreqBusiness:        "Business",
	FreqWeeklySunday:    "Weekly(Sunday)",
	FreqWeeklyMonday:    "Weekly(Monday)",
	FreqWeeklyTuesday:   "Weekly(Tuesday)",
	FreqWeeklyWednesday: "Weekly(Wednesday)",
	FreqWeeklyThursday:  "Weekly(Thursday)",
	FreqWeeklyFriday:    "Weekly(Friday)",
	FreqWeeklySaturday:  "Weekly(Saturday)",
	FreqTenDay:          "TenDay",
	FreqTwiceMonthly:    "TwiceMonthly",
	FreqMonthly:         "Monthly",
	FreqQuarterlyDec:    "Quarterly(December)",
	FreqSemiannualDec:   "Semiannual(December)",
	FreqAnnualDec:       "Annual(December)",
	FreqMillisecond:     "Millisecond",
	FreqSecond:          "Second",
	FreqMinute:          "Minute",
	FreqHour:            "Hour",
}

// Frequencies returns every known store frequency code except FreqUndefined.
func Frequencies() []Frequency {
	out := make([]Frequency, 0, len(frequencyNames))
	for f := range frequencyNames {
		if f != FreqUndefined {
			out = append(out, f)
		}
	}

	return out
}

func (f Frequency) String() string {
	if name, ok := frequencyNames[f]; ok {
		return name
	}

	return "Unknown"
}

func (b Basis) String() string {
	switch b {
	case BasisUndefined:
		return "Undefined"
	case BasisDaily:
		return "Daily"
	case BasisBusiness:
		return "Business"
	default:
		return "Unknown"
	}
}

func (o Observed) String() string {
	switch o {
	case ObservedUnbound:
		return "Unbound"
	case ObservedBeginning:
		return "Beginning"
	case ObservedEnd:
		return "End"
	case ObservedAveraged:
		return "Averaged"
	case ObservedSummed:
		return "Summed"
	case ObservedAnnual:
		return "Annualized"
	case ObservedFormula:
		return "Formula"
	case ObservedHigh:
		return "High"
	case ObservedLow:
		return "Low"
	default:
		return "Unknown"
	}
}

func (m AccessMode) String() string {
	switch m {
	case ModeRead:
		return "Read"
	case ModeCreate:
		return "Create"
	case ModeUpdate:
		return "Update"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompression maps a codec name such as "zstd" to its CompressionType.
func ParseCompression(name string) (CompressionType, bool) {
	switch name {
	case "none", "None", "":
		return CompressionNone, true
	case "zstd", "Zstd":
		return CompressionZstd, true
	case "s2", "S2":
		return CompressionS2, true
	case "lz4", "LZ4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}
