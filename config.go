package mdhtml

import (
	"sync"

	"github.com/riverfjs/mdhtml-go/internal/types"
)

// 导出类型别名
type RenderConfig = types.RenderConfig
type Linkifier = types.Linkifier

var (
	defaultConfig     *RenderConfig
	defaultConfigOnce sync.Once
)

// DefaultConfig returns the default render configuration (singleton).
func DefaultConfig() *RenderConfig {
	defaultConfigOnce.Do(func() {
		defaultConfig = types.DefaultRenderConfig()
	})
	return defaultConfig
}
