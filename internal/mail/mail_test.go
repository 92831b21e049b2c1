package mail

import (
	"errors"
	"testing"
)

func TestDeliveryError(t *testing.T) {
	inner := errors.New("422 validation_error")
	err := error(&DeliveryError{To: "a@example.com", Err: inner})

	if !errors.Is(err, inner) {
		t.Error("DeliveryError should unwrap to the provider error")
	}
	var de *DeliveryError
	if !errors.As(err, &de) || de.To != "a@example.com" {
		t.Errorf("errors.As = %+v", de)
	}
	if got := err.Error(); got != "deliver email to a@example.com: 422 validation_error" {
		t.Errorf("Error() = %q", got)
	}
}
