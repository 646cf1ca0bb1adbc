package geometry

import (
	"errors"
	"fmt"
)

var ErrAxisCode = errors.New("invalid axis code")

// AxisCode names a pair of local axes with two digits. The tens digit is the
// primary axis and the units digit the plane defining axis, 1/2/3 => x/y/z
type AxisCode int

const DefaultAxisCode AxisCode = 32

func NewAxisCode(code int) (ac AxisCode, err error) {
	ac = AxisCode(code)
	if !ac.Valid() {
		err = fmt.Errorf("%w: %d", ErrAxisCode, code)
	}
	return
}

func (ac AxisCode) Valid() bool {
	a, b := int(ac)/10, int(ac)%10
	return a >= 1 && a <= 3 && b >= 1 && b <= 3 && a != b && int(ac) < 100
}

func (ac AxisCode) Primary() int { return int(ac) / 10 }

func (ac AxisCode) Secondary() int { return int(ac) % 10 }

// Remaining is the axis named by neither digit
func (ac AxisCode) Remaining() int { return 6 - ac.Primary() - ac.Secondary() }

func (ac AxisCode) String() string { return fmt.Sprintf("%d", int(ac)) }
