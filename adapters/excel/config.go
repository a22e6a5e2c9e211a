package excel

// DecoderConfig holds limits for file decoding
type DecoderConfig struct {
	// Sheet selects a worksheet by name; empty means the first sheet.
	Sheet string `json:"sheet"`
	// MaxRows caps the number of data rows read; 0 means unlimited.
	MaxRows int `json:"max_rows"`
}

// DefaultDecoderConfig returns sensible defaults for upload decoding
func DefaultDecoderConfig() DecoderConfig {
	return DecoderConfig{
		MaxRows: 0,
	}
}
