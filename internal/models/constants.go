package models

const (
	// DefaultBaselineUnits is assumed when a promotion record does not state
	// its own baseline sales volume.
	DefaultBaselineUnits = 100.0

	StatusProfitable    = "Profitable"
	StatusBelowBaseline = "Below Baseline"

	GradePass = "PASS"
	GradeFail = "FAIL"
)
