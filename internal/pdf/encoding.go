package pdf

import (
	"fmt"

	"golang.org/x/text/encoding/charmap"
)

// encodeWinAnsi converts UTF-8 text to the Windows-1252 bytes expected by the
// standard Type1 fonts. Runes outside the code page are an error, not '?'.
func encodeWinAnsi(text string) (string, error) {
	encoded, err := charmap.Windows1252.NewEncoder().String(text)
	if err != nil {
		return "", fmt.Errorf("pdf: WinAnsi cannot encode %q: %w", text, err)
	}
	return encoded, nil
}
