package parser

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrStructural indicates a document whose element structure cannot be
// parsed: an end tag with no open element, an unexpected root element, or
// an element that the parser committed to and then rejected.
type ErrStructural struct {
	Element string
	Reason  string
}

func (e *ErrStructural) Error() string {
	if e.Element == "" {
		return fmt.Sprintf("structural error: %s", e.Reason)
	}
	return fmt.Sprintf("structural error at <%s>: %s", e.Element, e.Reason)
}

// ErrExternalService indicates a failure of a collaborator whose result
// cannot be degraded, such as coordinate reprojection.
type ErrExternalService struct {
	Service string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Service, e.Err)
}

func (e *ErrExternalService) Unwrap() error {
	return e.Err
}

// ErrForeignRemoval is the panic value raised when a parser that is not on
// top of the stack tries to remove itself.
var ErrForeignRemoval = errors.New("element parser tried to remove a parser it does not own")

func structuralError(node Node, format string, args ...any) error {
	return errors.WithStack(&ErrStructural{Element: node.QualifiedName(), Reason: fmt.Sprintf(format, args...)})
}
