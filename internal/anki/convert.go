package anki

import (
	"github.com/longbridgeapp/opencc"

	"github.com/mrlokans/kotoba/internal/logger"
)

// Converter rewrites explanation text between Chinese scripts.
type Converter interface {
	Convert(text string) string
}

// Passthrough leaves text unchanged.
type Passthrough struct{}

func (Passthrough) Convert(text string) string { return text }

type openCCConverter struct {
	cc  *opencc.OpenCC
	log *logger.Logger
}

// NewTraditionalConverter returns a simplified to traditional converter.
// If OpenCC cannot load its dictionaries the import continues with
// unconverted text.
func NewTraditionalConverter(log *logger.Logger) Converter {
	if log == nil {
		log = logger.Nop()
	}
	cc, err := opencc.New("s2t")
	if err != nil {
		log.Warn("opencc unavailable, explanations will be imported unconverted", "error", err)
		return Passthrough{}
	}
	return &openCCConverter{cc: cc, log: log}
}

func (c *openCCConverter) Convert(text string) string {
	if text == "" {
		return text
	}
	out, err := c.cc.Convert(text)
	if err != nil {
		c.log.Warn("script conversion failed", "error", err)
		return text
	}
	return out
}
