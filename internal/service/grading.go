package service

import (
	"math"

	"github.com/noah-isme/campus-portal-api/internal/models"
)

// GradingPolicy selects how an enrollment percentage is derived from its grades.
type GradingPolicy string

const (
	// PolicyUnweighted divides the sum of scores by the sum of maximum scores.
	PolicyUnweighted GradingPolicy = "unweighted"
	// PolicyWeighted scales every score and maximum by the assignment weight.
	PolicyWeighted GradingPolicy = "weighted"
)

// PolicyFor maps the weighted-grading switch onto a policy.
func PolicyFor(weighted bool) GradingPolicy {
	if weighted {
		return PolicyWeighted
	}
	return PolicyUnweighted
}

// EnrollmentPercentage computes round(100*Σscore/Σmax, 1) over grades whose
// assignment is loaded. The boolean is false when there is no data: no usable
// grades, or a zero maximum total.
func EnrollmentPercentage(grades []models.Grade, policy GradingPolicy) (float64, bool) {
	var totalScore, totalMax float64
	for _, grade := range grades {
		maxScore, ok := grade.MaxScore()
		if !ok {
			continue
		}
		factor := 1.0
		if policy == PolicyWeighted {
			factor = grade.Assignment.Weight
		}
		totalScore += grade.Score * factor
		totalMax += maxScore * factor
	}

	if totalMax == 0 {
		return 0, false
	}

	return RoundTo(100*totalScore/totalMax, 1), true
}

// MeanGradePercentage averages the per-grade percentages, skipping grades
// without a positive maximum.
func MeanGradePercentage(grades []models.Grade) (float64, bool) {
	var sum float64
	var count int
	for _, grade := range grades {
		maxScore, ok := grade.MaxScore()
		if !ok || maxScore <= 0 {
			continue
		}
		sum += grade.Score * 100 / maxScore
		count++
	}
	if count == 0 {
		return 0, false
	}
	return RoundTo(sum/float64(count), 1), true
}

// RoundTo rounds half away from zero to the given number of decimal places.
func RoundTo(value float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(value*scale) / scale
}

func percentagePtr(value float64, ok bool) *float64 {
	if !ok {
		return nil
	}
	return &value
}
