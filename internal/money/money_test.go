package money

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "integer", in: "100", want: "100.00"},
		{name: "two digits", in: "12.34", want: "12.34"},
		{name: "one digit", in: "0.5", want: "0.50"},
		{name: "trailing zeros beyond scale", in: "1.5000", want: "1.50"},
		{name: "negative allowed by parser", in: "-3.10", want: "-3.10"},
		{name: "whitespace trimmed", in: " 7.00 ", want: "7.00"},
		{name: "three digits", in: "1.005", wantErr: true},
		{name: "empty", in: "", wantErr: true},
		{name: "garbage", in: "ten", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Fatalf("Parse(%q) err = %v, want ErrInvalidAmount", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.in, err)
			}
			if Format(got) != tt.want {
				t.Fatalf("Parse(%q) = %s, want %s", tt.in, Format(got), tt.want)
			}
		})
	}
}

func TestPositive(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"0.01", true},
		{"100", true},
		{"0", false},
		{"-1", false},
		{"0.001", false},
	}
	for _, tt := range tests {
		err := Positive(decimal.RequireFromString(tt.in))
		if (err == nil) != tt.ok {
			t.Fatalf("Positive(%s) err = %v, want ok=%v", tt.in, err, tt.ok)
		}
	}
}

func TestDecimalArithmeticIsExact(t *testing.T) {
	bal := Must("0.00")
	for i := 0; i < 10; i++ {
		bal = bal.Add(Must("0.10"))
	}
	if !bal.Equal(Must("1.00")) {
		t.Fatalf("ten dimes = %s, want 1.00", Format(bal))
	}
}

func TestAmountMarshalsFixedScale(t *testing.T) {
	tests := []struct {
		in   decimal.Decimal
		want string
	}{
		{Must("100"), `"100.00"`},
		{decimal.RequireFromString("-100.00"), `"-100.00"`},
		{Must("0.5"), `"0.50"`},
		{decimal.Decimal{}, `"0.00"`},
	}
	for _, tt := range tests {
		b, err := Amount(tt.in).MarshalJSON()
		if err != nil || string(b) != tt.want {
			t.Fatalf("Amount(%s) = %s, %v; want %s", tt.in, b, err, tt.want)
		}
	}
}
