package plan

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Form field names delivered by the presentation layer.
const (
	FieldWeightLbs       = "weight_lbs"
	FieldHeightFt        = "height_ft"
	FieldHeightInPartial = "height_in_partial"
	FieldAge             = "age"
	FieldGender          = "gender"
	FieldGoalWeightLbs   = "goal_weight_lbs"
)

var FormFields = []string{
	FieldWeightLbs,
	FieldHeightFt,
	FieldHeightInPartial,
	FieldAge,
	FieldGender,
	FieldGoalWeightLbs,
}

var (
	errNotFinite   = errors.New("value is not a finite number")
	errNotPositive = errors.New("value must be greater than zero")
	errTooLarge    = errors.New("value is above the supported range")
	errHeightRange = errors.New("feet must be >= 0 and inches in [0, 12)")
)

// ParseForm reads raw, untrusted form values. Height is read and
// range-checked before the other fields, so a bad height is reported even
// when later fields are also missing.
func ParseForm(fields map[string]string) (BiometricInput, error) {
	var in BiometricInput
	var err error

	if in.HeightFt, err = floatField(fields, FieldHeightFt); err != nil {
		return BiometricInput{}, err
	}
	if in.HeightInPartial, err = floatField(fields, FieldHeightInPartial); err != nil {
		return BiometricInput{}, err
	}
	if err := validateHeight(in.HeightFt, in.HeightInPartial); err != nil {
		return BiometricInput{}, err
	}

	if in.WeightLbs, err = floatField(fields, FieldWeightLbs); err != nil {
		return BiometricInput{}, err
	}
	if in.Age, err = intField(fields, FieldAge); err != nil {
		return BiometricInput{}, err
	}
	gender, ok := fields[FieldGender]
	if !ok {
		return BiometricInput{}, &Error{Kind: KindMissingInput, Field: FieldGender}
	}
	in.Gender = gender
	if in.GoalWeightLbs, err = floatField(fields, FieldGoalWeightLbs); err != nil {
		return BiometricInput{}, err
	}

	if err := Validate(in); err != nil {
		return BiometricInput{}, err
	}
	return in, nil
}

// Upper bounds keep every derived target well inside int range.
const (
	maxWeightLbs = 2000
	maxAgeYears  = 150
	maxHeightFt  = 10
)

// Validate checks the ranges of an already-typed input.
func Validate(in BiometricInput) error {
	if err := validateHeight(in.HeightFt, in.HeightInPartial); err != nil {
		return err
	}
	if in.HeightFt > maxHeightFt {
		return &Error{Kind: KindInvalidInput, Field: FieldHeightFt, Err: errTooLarge}
	}
	for _, f := range []struct {
		name  string
		value float64
		max   float64
	}{
		{FieldWeightLbs, in.WeightLbs, maxWeightLbs},
		{FieldAge, float64(in.Age), maxAgeYears},
		{FieldGoalWeightLbs, in.GoalWeightLbs, maxWeightLbs},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return &Error{Kind: KindInvalidInput, Field: f.name, Err: errNotFinite}
		}
		if f.value <= 0 {
			return &Error{Kind: KindInvalidInput, Field: f.name, Err: errNotPositive}
		}
		if f.value > f.max {
			return &Error{Kind: KindInvalidInput, Field: f.name, Err: errTooLarge}
		}
	}
	return nil
}

func validateHeight(feet, inches float64) error {
	if math.IsNaN(feet) || math.IsInf(feet, 0) {
		return &Error{Kind: KindInvalidInput, Field: FieldHeightFt, Err: errNotFinite}
	}
	if math.IsNaN(inches) || math.IsInf(inches, 0) {
		return &Error{Kind: KindInvalidInput, Field: FieldHeightInPartial, Err: errNotFinite}
	}
	if feet < 0 || inches < 0 || inches >= 12 {
		return &Error{Kind: KindInvalidHeight, Field: FieldHeightInPartial, Err: errHeightRange}
	}
	return nil
}

func floatField(fields map[string]string, name string) (float64, error) {
	raw, ok := fields[name]
	if !ok {
		return 0, &Error{Kind: KindMissingInput, Field: name}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, &Error{Kind: KindInvalidInput, Field: name, Err: err}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &Error{Kind: KindInvalidInput, Field: name, Err: errNotFinite}
	}
	return v, nil
}

func intField(fields map[string]string, name string) (int, error) {
	raw, ok := fields[name]
	if !ok {
		return 0, &Error{Kind: KindMissingInput, Field: name}
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &Error{Kind: KindInvalidInput, Field: name, Err: err}
	}
	return v, nil
}
