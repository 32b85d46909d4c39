package e

import "fmt"

// Wrap はエラーに発生場所などの文脈を付ける
func Wrap(msg string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
