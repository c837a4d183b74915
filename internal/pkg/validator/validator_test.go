package validator

import "testing"

type listingForm struct {
	Title    string `json:"title" validate:"required,min=3,max=120"`
	Category string `json:"category" validate:"required,category"`
	Status   string `json:"status" validate:"omitempty,listing_status"`
}

func TestCategoryValidation(t *testing.T) {
	errs := Validate(&listingForm{Title: "Mountain bike", Category: "Sports"})
	if errs != nil {
		t.Fatalf("expected valid form, got %v", errs)
	}

	errs = Validate(&listingForm{Title: "Mountain bike", Category: "Bicycles"})
	if errs == nil {
		t.Fatal("expected category error for unknown category")
	}
	if _, ok := errs["category"]; !ok {
		t.Fatalf("expected error keyed by json tag, got %v", errs)
	}
}

func TestListingStatusValidation(t *testing.T) {
	errs := Validate(&listingForm{Title: "Old sofa", Category: "Furniture", Status: "sold"})
	if errs != nil {
		t.Fatalf("expected valid status, got %v", errs)
	}

	errs = Validate(&listingForm{Title: "Old sofa", Category: "Furniture", Status: "archived"})
	if errs == nil {
		t.Fatal("expected status error for unknown status")
	}
}

func TestRequiredUsesJSONTagNames(t *testing.T) {
	errs := Validate(&listingForm{})
	if errs == nil {
		t.Fatal("expected validation errors")
	}
	if _, ok := errs["title"]; !ok {
		t.Fatalf("expected 'title' key, got %v", errs)
	}
}

func TestPaymentStatusVar(t *testing.T) {
	if err := ValidateVar("pending", "payment_status"); err != nil {
		t.Fatalf("expected pending to be valid: %v", err)
	}
	if err := ValidateVar("refunded", "payment_status"); err == nil {
		t.Fatal("expected refunded to be invalid")
	}
}
