package validator

import (
	"fmt"
	"strings"

	"signalrelay/internal/platform/models"
)

// ValidateSignal checks the fields the relay itself depends on. The secret
// is forwarded to the downstream target untouched; verifying it is the
// downstream's job.
func ValidateSignal(sig *models.TradingSignal) error {
	if strings.TrimSpace(sig.Name) == "" {
		return fmt.Errorf("field 'name' is required")
	}
	if strings.TrimSpace(sig.Side) == "" {
		return fmt.Errorf("field 'side' is required")
	}
	if strings.TrimSpace(sig.Symbol) == "" {
		return fmt.Errorf("field 'symbol' is required")
	}
	return nil
}
