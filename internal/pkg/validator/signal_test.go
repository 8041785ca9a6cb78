package validator

import (
	"testing"

	"signalrelay/internal/platform/models"
)

func TestValidateSignal(t *testing.T) {
	tests := []struct {
		name    string
		signal  models.TradingSignal
		wantErr bool
	}{
		{
			"Valid signal",
			models.TradingSignal{Name: "BOMEUSDT", Side: "buy", Symbol: "BOMEUSDT", Secret: "s"},
			false,
		},
		{
			"Missing secret is fine",
			models.TradingSignal{Name: "BOMEUSDT", Side: "sell", Symbol: "BOMEUSDT"},
			false,
		},
		{
			"Missing name",
			models.TradingSignal{Side: "buy", Symbol: "BOMEUSDT"},
			true,
		},
		{
			"Whitespace name",
			models.TradingSignal{Name: "   ", Side: "buy", Symbol: "BOMEUSDT"},
			true,
		},
		{
			"Missing side",
			models.TradingSignal{Name: "BOMEUSDT", Symbol: "BOMEUSDT"},
			true,
		},
		{
			"Missing symbol",
			models.TradingSignal{Name: "BOMEUSDT", Side: "buy"},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSignal(&tt.signal)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSignal() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
