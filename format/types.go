package format

type (
	CompressionType uint8
	DimensionType   uint8
	DataType        uint8
)

const (
	CompressionNone    CompressionType = 0x1 // CompressionNone stores payloads as encoded.
	CompressionZstd    CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2      CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4     CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
	CompressionDeflate CompressionType = 0x5 // CompressionDeflate represents DEFLATE at the default level.
)

const (
	DimensionSample DimensionType = 0x1 // DimensionSample is a regularly sampled axis.
	DimensionRange  DimensionType = 0x2 // DimensionRange is an axis with explicit ticks.
	DimensionSet    DimensionType = 0x3 // DimensionSet is a categorical axis with labels.
)

const (
	DataTypeDouble DataType = 0x1 // DataTypeDouble is a 64-bit float.
	DataTypeInt64  DataType = 0x2 // DataTypeInt64 is a signed 64-bit integer.
	DataTypeString DataType = 0x3 // DataTypeString is a UTF-8 string.
	DataTypeBool   DataType = 0x4 // DataTypeBool is a boolean.
)

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
	case CompressionDeflate:
		return "Deflate"
	default:
		return "Unknown"
	}
}

// ParseCompression maps a case-sensitive lower-case name to a CompressionType.
// It returns false for unknown names.
func ParseCompression(name string) (CompressionType, bool) {
	switch name {
	case "none":
		return CompressionNone, true
	case "zstd":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	case "deflate":
		return CompressionDeflate, true
	default:
		return 0, false
	}
}

func (d DimensionType) String() string {
	switch d {
	case DimensionSample:
		return "Sample"
	case DimensionRange:
		return "Range"
	case DimensionSet:
		return "Set"
	default:
		return "Unknown"
	}
}

func (t DataType) String() string {
	switch t {
	case DataTypeDouble:
		return "Double"
	case DataTypeInt64:
		return "Int64"
	case DataTypeString:
		return "String"
	case DataTypeBool:
		return "Bool"
	default:
		return "Unknown"
	}
}
