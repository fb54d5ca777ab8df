package clipboard

import (
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/Nyukimin/failguard/internal/domain/view"
)

// System はOSのクリップボード（xclip / pbcopy / Windows API）
type System struct{}

var _ view.Clipboard = System{}

// Available はクリップボードが利用可能かを返す
func Available() bool {
	return !clipboard.Unsupported
}

// WriteText はテキストをクリップボードに書き込む
func (System) WriteText(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard is not supported on this system")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}
