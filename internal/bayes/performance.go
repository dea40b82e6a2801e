package bayes

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// NumberNeeded is a count of patients. NumberNeededUnbounded means no finite
// number suffices.
type NumberNeeded int

const NumberNeededUnbounded NumberNeeded = -1

// NumberNeededMax is the saturated count reported when 1/PPV exceeds the
// integer range.
const NumberNeededMax NumberNeeded = math.MaxInt

func (n NumberNeeded) IsUnbounded() bool { return n == NumberNeededUnbounded }

func (n NumberNeeded) String() string {
	if n.IsUnbounded() {
		return unboundedText
	}
	return strconv.Itoa(int(n))
}

func (n NumberNeeded) MarshalJSON() ([]byte, error) {
	if n.IsUnbounded() {
		return json.Marshal(unboundedText)
	}
	return json.Marshal(int(n))
}

func (n *NumberNeeded) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != unboundedText {
			return fmt.Errorf("number needed must be an integer or %q", unboundedText)
		}
		*n = NumberNeededUnbounded
		return nil
	}
	var i int
	if err := json.Unmarshal(data, &i); err != nil {
		return fmt.Errorf("number needed must be an integer or %q", unboundedText)
	}
	*n = NumberNeeded(i)
	return nil
}

// AnalyzeTestPerformance computes predictive values and the number needed
// to diagnose at the given prevalence. A predictive value whose denominator
// is zero (that result can never occur) is reported as 0.
func AnalyzeTestPerformance(sensitivity, specificity, prevalence float64) (TestPerformance, error) {
	test := DiagnosticTest{Sensitivity: sensitivity, Specificity: specificity}
	if err := ValidateTest(test); err != nil {
		return TestPerformance{}, err
	}
	if err := ValidateProbability("prevalence", prevalence); err != nil {
		return TestPerformance{}, err
	}

	truePos := sensitivity * prevalence
	falsePos := (1 - specificity) * (1 - prevalence)
	trueNeg := specificity * (1 - prevalence)
	falseNeg := (1 - sensitivity) * prevalence

	ppv := ratio(truePos, truePos+falsePos)
	npv := ratio(trueNeg, trueNeg+falseNeg)

	nnd := numberNeeded(ppv)

	pos, neg, err := TestLikelihoodRatios(test)
	if err != nil {
		return TestPerformance{}, err
	}

	return TestPerformance{
		PPV:                    ppv,
		NPV:                    npv,
		NumberNeededToDiagnose: nnd,
		PositiveLR:             pos,
		NegativeLR:             neg,
		YoudenIndex:            sensitivity + specificity - 1,
	}, nil
}

// numberNeeded is ceil(1/ppv), saturating at NumberNeededMax.
func numberNeeded(ppv float64) NumberNeeded {
	if ppv <= 0 {
		return NumberNeededUnbounded
	}
	n := math.Ceil(1 / ppv)
	if n >= float64(NumberNeededMax) {
		return NumberNeededMax
	}
	return NumberNeeded(n)
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return clamp(num/den, 0, 1)
}
