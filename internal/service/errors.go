package service

import (
	"errors"
	"fmt"
)

// ErrNotFound is wrapped by every "entity missing" error.
var ErrNotFound = errors.New("not found")

var (
	// ErrUserNotFound indicates the referenced user does not exist.
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)
	// ErrCourseNotFound indicates the referenced course does not exist.
	ErrCourseNotFound = fmt.Errorf("course %w", ErrNotFound)
	// ErrAssignmentNotFound indicates the referenced assignment does not exist.
	ErrAssignmentNotFound = fmt.Errorf("assignment %w", ErrNotFound)
	// ErrEnrollmentNotFound indicates the referenced enrollment does not exist.
	ErrEnrollmentNotFound = fmt.Errorf("enrollment %w", ErrNotFound)
	// ErrAnnouncementNotFound indicates the referenced announcement does not exist.
	ErrAnnouncementNotFound = fmt.Errorf("announcement %w", ErrNotFound)
)

var (
	// ErrScoreOutOfRange indicates a score below zero or above the assignment maximum.
	ErrScoreOutOfRange = errors.New("score out of range")
	// ErrMaxBelowRecordedScore indicates a new assignment maximum below a score already recorded against it.
	ErrMaxBelowRecordedScore = errors.New("max score below an already recorded score")
	// ErrDuplicateGrade indicates the enrollment already holds a grade for the assignment.
	ErrDuplicateGrade = errors.New("grade already recorded for assignment")
	// ErrAssignmentCourseMismatch indicates the assignment belongs to a different course than the enrollment.
	ErrAssignmentCourseMismatch = errors.New("assignment does not belong to the enrollment course")
	// ErrAlreadyEnrolled indicates the student already holds an enrollment for the course.
	ErrAlreadyEnrolled = errors.New("student already enrolled in course")
	// ErrNotAStudent indicates the user cannot enroll because they are not a student.
	ErrNotAStudent = errors.New("user is not a student")
	// ErrNotAnInstructor indicates the user cannot teach because they are not an instructor.
	ErrNotAnInstructor = errors.New("user is not an instructor")
	// ErrNotCourseInstructor indicates the actor does not teach the course.
	ErrNotCourseInstructor = errors.New("actor does not teach this course")
	// ErrCourseCodeTaken indicates another course already uses the code.
	ErrCourseCodeTaken = errors.New("course code already in use")
	// ErrUserExists indicates the username or email is already registered.
	ErrUserExists = errors.New("username or email already registered")
	// ErrEmptyContent indicates announcement content that is blank once sanitized.
	ErrEmptyContent = errors.New("content is empty after sanitization")
	// ErrInvalidRole indicates an unknown role value.
	ErrInvalidRole = errors.New("invalid role")
)
