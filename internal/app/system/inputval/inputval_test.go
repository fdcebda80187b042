package inputval_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/grupovertice/captacion/internal/app/system/inputval"
)

type altaPayload struct {
	Nombre         string `validate:"required"`
	Telefono       string `validate:"required_without=Instagram"`
	Instagram      string `validate:"required_without=Telefono"`
	AnioNacimiento int    `validate:"required,gte=1950,lte=2100"`
}

func TestStruct_ChannelPair(t *testing.T) {
	// Either channel alone satisfies the pair rule.
	if err := inputval.Struct(altaPayload{Nombre: "Ana", Telefono: "600", AnioNacimiento: 2007}); err != nil {
		t.Errorf("telefono only: %v", err)
	}
	if err := inputval.Struct(altaPayload{Nombre: "Ana", Instagram: "@ana", AnioNacimiento: 2007}); err != nil {
		t.Errorf("instagram only: %v", err)
	}

	err := inputval.Struct(altaPayload{Nombre: "Ana", AnioNacimiento: 2007})
	if err == nil {
		t.Fatal("both channels empty must fail")
	}
	if msg := inputval.Message(err); !strings.Contains(msg, "teléfono o instagram") {
		t.Errorf("message = %q", msg)
	}
}

func TestStruct_YearRange(t *testing.T) {
	err := inputval.Struct(altaPayload{Nombre: "Ana", Telefono: "600", AnioNacimiento: 1900})
	if err == nil {
		t.Fatal("out-of-range year must fail")
	}
	if msg := inputval.Message(err); !strings.Contains(msg, "fuera de rango") {
		t.Errorf("message = %q", msg)
	}
}

func TestMessage_NonValidationError(t *testing.T) {
	msg := inputval.Message(errors.New("boom"))
	if msg != "datos de entrada no válidos" {
		t.Errorf("message = %q", msg)
	}
}
