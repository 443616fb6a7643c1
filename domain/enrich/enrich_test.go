package enrich

import "testing"

func TestDomainFromSender(t *testing.T) {
	tests := []struct {
		name   string
		sender string
		want   string
	}{
		{
			name:   "display name with angle address",
			sender: "Potbelly Sandwich Works <offers@e.potbelly.com>",
			want:   "potbelly.com",
		},
		{
			name:   "bare address",
			sender: "deals@shop.example.com",
			want:   "example.com",
		},
		{
			name:   "uppercase collapses",
			sender: "Promo <NEWS@Email.OldNavy.COM>",
			want:   "oldnavy.com",
		},
		{
			name:   "root domain stays",
			sender: "hello@potbelly.com",
			want:   "potbelly.com",
		},
		{
			name:   "no at sign",
			sender: "not an address",
			want:   "",
		},
		{
			name:   "trailing at sign",
			sender: "broken@",
			want:   "",
		},
		{
			name:   "empty",
			sender: "",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DomainFromSender(tt.sender); got != tt.want {
				t.Errorf("DomainFromSender(%q) = %q, want %q", tt.sender, got, tt.want)
			}
		})
	}
}

func TestCategoryLookup(t *testing.T) {
	s := NewService(0)

	if got := s.category("sephora.com"); got != "beauty" {
		t.Errorf("category(sephora.com) = %q, want beauty", got)
	}
	if got := s.category("unknown-shop.io"); got != defaultCategory {
		t.Errorf("category(unknown) = %q, want %q", got, defaultCategory)
	}
}
