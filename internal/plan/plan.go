// Package plan turns biometric form input into a diet plan: BMI, a daily
// calorie target and a daily protein target.
//
// Everything here is pure. Callers own any state that holds the result.
package plan

import (
	"math"
	"strconv"
)

const (
	lbsToKg       = 0.453592
	inchesToMeter = 0.0254
	inchesToCm    = 2.54

	activityMultiplier = 1.2
	goalAdjustmentKcal = 500
	proteinPerGoalKg   = 1.6
)

// Gender values offered by the input form. Any other string is accepted and
// takes the non-male BMR branch.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

var Genders = []string{GenderMale, GenderFemale}

type BiometricInput struct {
	WeightLbs       float64 `json:"weight_lbs"`
	HeightFt        float64 `json:"height_ft"`
	HeightInPartial float64 `json:"height_in_partial"`
	Age             int     `json:"age"`
	Gender          string  `json:"gender"`
	GoalWeightLbs   float64 `json:"goal_weight_lbs"`
}

// UserProfile is the validated input with height folded into total inches.
type UserProfile struct {
	WeightLbs     float64 `json:"weight_lbs"`
	HeightIn      float64 `json:"height_in"`
	Age           int     `json:"age"`
	Gender        string  `json:"gender"`
	GoalWeightLbs float64 `json:"goal_weight_lbs"`
}

type Result struct {
	BMI           float64 `json:"bmi"`
	DailyCalories int     `json:"daily_calories"`
	DailyProtein  int     `json:"daily_protein"`
}

// Compute validates in and derives the profile and plan. On error both
// return values are zero.
func Compute(in BiometricInput) (UserProfile, Result, error) {
	if err := Validate(in); err != nil {
		return UserProfile{}, Result{}, err
	}

	profile := UserProfile{
		WeightLbs:     in.WeightLbs,
		HeightIn:      in.HeightFt*12 + in.HeightInPartial,
		Age:           in.Age,
		Gender:        in.Gender,
		GoalWeightLbs: in.GoalWeightLbs,
	}
	return profile, computeResult(profile), nil
}

// ComputeFromForm parses raw form values and computes the plan.
func ComputeFromForm(fields map[string]string) (UserProfile, Result, error) {
	in, err := ParseForm(fields)
	if err != nil {
		return UserProfile{}, Result{}, err
	}
	return Compute(in)
}

func computeResult(p UserProfile) Result {
	weightKg := p.WeightLbs * lbsToKg
	heightM := p.HeightIn * inchesToMeter
	heightCm := p.HeightIn * inchesToCm

	tdee := BMR(weightKg, heightCm, p.Age, p.Gender) * activityMultiplier
	calories := roundInt(tdee + CalorieAdjustment(p.WeightLbs, p.GoalWeightLbs))

	return Result{
		BMI:           BMI(weightKg, heightM),
		DailyCalories: calories,
		DailyProtein:  roundInt(proteinPerGoalKg * p.GoalWeightLbs * lbsToKg),
	}
}

// BMI returns weight/height² rounded to one decimal, or 0 for a zero height.
// Rounding works on the exact binary value, so 24.15 (stored as
// 24.1499...) rounds down.
func BMI(weightKg, heightM float64) float64 {
	if heightM == 0 {
		return 0
	}
	return roundTenths(weightKg / (heightM * heightM))
}

func roundTenths(v float64) float64 {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	if err != nil {
		return v
	}
	return rounded
}

// BMR is the Mifflin-St Jeor estimate. Only the exact string "male" selects
// the male constant.
func BMR(weightKg, heightCm float64, age int, gender string) float64 {
	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if gender == GenderMale {
		return base + 5
	}
	return base - 161
}

// CalorieAdjustment is -500 kcal when losing weight, +500 when gaining and 0
// when the goal equals the current weight.
func CalorieAdjustment(weightLbs, goalWeightLbs float64) float64 {
	switch {
	case goalWeightLbs < weightLbs:
		return -goalAdjustmentKcal
	case goalWeightLbs > weightLbs:
		return goalAdjustmentKcal
	default:
		return 0
	}
}

func roundInt(v float64) int {
	return int(math.RoundToEven(v))
}
