package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var analysisValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every declared range and value set of the engine output.
// Any violation yields ErrSchemaViolation; a partially valid result is
// never accepted.
func (a *ScanAnalysis) Validate() error {
	if a == nil {
		return WrapError(ErrSchemaViolation, "validate analysis", errors.New("nil analysis"))
	}
	err := analysisValidator.Struct(a)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return WrapError(ErrSchemaViolation, "validate analysis", errors.New(describeViolations(verrs)))
	}
	return WrapError(ErrSchemaViolation, "validate analysis", err)
}

func describeViolations(verrs validator.ValidationErrors) string {
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return strings.Join(parts, "; ")
}
