package listing

import "testing"

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusActive, StatusActive, true},
		{StatusActive, StatusSold, true},
		{StatusActive, StatusRemoved, true},
		{StatusSold, StatusSold, true},
		{StatusSold, StatusRemoved, true},
		{StatusSold, StatusActive, false},
		{StatusRemoved, StatusRemoved, true},
		{StatusRemoved, StatusActive, false},
		{StatusRemoved, StatusSold, false},
	}

	for _, c := range cases {
		if got := c.from.CanTransitionTo(c.to); got != c.allowed {
			t.Errorf("%s -> %s: got %v, want %v", c.from, c.to, got, c.allowed)
		}
	}
}

func TestToResponseResolvesImageKeys(t *testing.T) {
	l := &Listing{Images: []string{"listings/u/1-a.jpg", "listings/u/2-b.png"}}

	resp := l.ToResponse(func(key string) string { return "https://cdn.example.com/" + key })

	if len(resp.Images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(resp.Images))
	}
	if resp.Images[0] != "https://cdn.example.com/listings/u/1-a.jpg" {
		t.Errorf("unexpected image URL: %s", resp.Images[0])
	}
}

func TestContactLinks(t *testing.T) {
	tel, wa := contactLinks("9999999999")
	if tel != "tel:+919999999999" {
		t.Errorf("unexpected tel link: %s", tel)
	}
	if wa != "https://wa.me/919999999999" {
		t.Errorf("unexpected whatsapp link: %s", wa)
	}

	// Already carries a country code.
	tel, wa = contactLinks("+91 99999 99999")
	if tel != "tel:+919999999999" {
		t.Errorf("unexpected tel link: %s", tel)
	}
	if wa != "https://wa.me/919999999999" {
		t.Errorf("unexpected whatsapp link: %s", wa)
	}
}

func TestToResponseEmptyImages(t *testing.T) {
	l := &Listing{}
	resp := l.ToResponse(func(key string) string { return key })

	if resp.Images == nil {
		t.Fatal("images should be an empty slice, not nil")
	}
	if len(resp.Images) != 0 {
		t.Fatalf("expected 0 images, got %d", len(resp.Images))
	}
}
