package evaltest

import (
	"errors"
	"fmt"
	"reflect"

	"src.rho.sh/pkg/eval"
	"src.rho.sh/pkg/parse"
)

type errorMatcher interface{ matchError(error) bool }

// An errorMatcher for parse errors.
type parseError struct{ causes []error }

func (e parseError) Error() string {
	if len(e.causes) == 0 {
		return "any parse error"
	}
	return fmt.Sprintf("parse error caused by %v", e.causes)
}

func (e parseError) matchError(e2 error) bool {
	if parse.GetError(e2) == nil {
		return false
	}
	for _, cause := range e.causes {
		if !errors.Is(e2, cause) {
			return false
		}
	}
	return true
}

// An errorMatcher for exceptions.
type exc struct {
	reason error
	stacks []string
}

func (e exc) Error() string {
	if len(e.stacks) == 0 {
		return fmt.Sprintf("exception with reason %v", e.reason)
	}
	return fmt.Sprintf("exception with reason %v and stacks %v", e.reason, e.stacks)
}

func (e exc) matchError(e2 error) bool {
	if e2 := eval.GetException(e2); e2 != nil {
		return matchErr(e.reason, e2.Reason()) &&
			(len(e.stacks) == 0 ||
				reflect.DeepEqual(e.stacks, getStackNames(e2.StackTrace())))
	}
	return false
}

func getStackNames(tb *eval.StackTrace) []string {
	names := []string{}
	for ; tb != nil; tb = tb.Next {
		names = append(names, tb.Name)
	}
	return names
}

// AnyError is an error that can be passed to Case.Throws to match any error.
var AnyError anyError

type anyError struct{}

func (anyError) Error() string           { return "any error" }
func (anyError) matchError(e error) bool { return e != nil }

// ErrorWithType returns an error that can be passed to the Case.Throws to match
// any error with the same type as the argument.
func ErrorWithType(v error) error { return errWithType{v} }

// An errorMatcher for any error with the given type.
type errWithType struct{ v error }

func (e errWithType) Error() string { return fmt.Sprintf("error with type %T", e.v) }

func (e errWithType) matchError(e2 error) bool {
	return reflect.TypeOf(e.v) == reflect.TypeOf(e2)
}

// ErrorWithMessage returns an error that can be passed to Case.Throws to match
// any error with the given message.
func ErrorWithMessage(msg string) error { return errWithMessage{msg} }

// An errorMatcher for any error with the given message.
type errWithMessage struct{ msg string }

func (e errWithMessage) Error() string { return "error with message " + e.msg }

func (e errWithMessage) matchError(e2 error) bool {
	return e2 != nil && e.msg == e2.Error()
}

type errOneOf struct{ errs []error }

// OneOfErrors returns an error that matches any of the given errors.
func OneOfErrors(errs ...error) error { return errOneOf{errs} }

func (e errOneOf) Error() string { return fmt.Sprint("one of", e.errs) }

func (e errOneOf) matchError(gotError error) bool {
	for _, want := range e.errs {
		if matchErr(want, gotError) {
			return true
		}
	}
	return false
}
