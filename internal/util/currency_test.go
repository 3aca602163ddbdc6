package util

import "testing"

func TestDetectCurrency(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "euro symbol", input: "12,50 €", want: "EUR"},
		{name: "eur keyword", input: "montant en EUR", want: "EUR"},
		{name: "dollar", input: "$ 120", want: "USD"},
		{name: "fcfa suppresses dollar", input: "12 000 FCFA ($)", want: "XAF"},
		{name: "xaf keyword", input: "5000 XAF", want: "XAF"},
		{name: "pound", input: "£99", want: "GBP"},
		{name: "dirham", input: "200 DH", want: "MAD"},
		{name: "dinar", input: "1500 DZD", want: "DZD"},
		{name: "nothing", input: "Ciment CPA 50kg", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectCurrency(tc.input); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestParsePrice(t *testing.T) {
	cases := []struct {
		name         string
		input        string
		wantAmount   float64
		wantCurrency string
	}{
		{name: "plain", input: "4500", wantAmount: 4500, wantCurrency: ""},
		{name: "fcfa suffix", input: "4500 FCFA", wantAmount: 4500, wantCurrency: "XAF"},
		{name: "space grouping", input: "12 000 FCFA", wantAmount: 12000, wantCurrency: "XAF"},
		{name: "comma decimal", input: "12,5 €", wantAmount: 12.5, wantCurrency: "EUR"},
		{name: "dollar prefix", input: "$49.99", wantAmount: 49.99, wantCurrency: "USD"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			amount, currency := ParsePrice(tc.input)
			if amount == nil || *amount != tc.wantAmount {
				t.Fatalf("amount=%v want %v", amount, tc.wantAmount)
			}
			if tc.wantCurrency == "" {
				if currency != nil {
					t.Fatalf("currency=%v want nil", *currency)
				}
			} else if currency == nil || *currency != tc.wantCurrency {
				t.Fatalf("currency=%v want %q", currency, tc.wantCurrency)
			}
		})
	}
}

func TestParsePriceNoDigits(t *testing.T) {
	amount, currency := ParsePrice("sur devis")
	if amount != nil {
		t.Fatalf("amount=%v want nil", *amount)
	}
	if currency != nil {
		t.Fatalf("currency=%v want nil", *currency)
	}
}

func TestParseDecimal(t *testing.T) {
	cases := []struct {
		input string
		want  float64
	}{
		{input: "50", want: 50},
		{input: "1,5", want: 1.5},
		{input: "1.5", want: 1.5},
		{input: "1 000", want: 1000},
	}
	for _, tc := range cases {
		got := ParseDecimal(tc.input)
		if got == nil || *got != tc.want {
			t.Fatalf("ParseDecimal(%q)=%v want %v", tc.input, got, tc.want)
		}
	}
	if got := ParseDecimal("dix"); got != nil {
		t.Fatalf("ParseDecimal(dix)=%v want nil", *got)
	}
}

func TestNormalizeName(t *testing.T) {
	if got := NormalizeName("  Ciment   CPA  "); got != "ciment cpa" {
		t.Fatalf("got %q", got)
	}
}
