// Panic recovery utilities. The training and inference orchestrators use
// these to surface a panicking model as a regular error instead of
// crashing the caller.

package errors

import (
	"fmt"
	"runtime/debug"
)

// PanicError は回復されたパニックから生成されるエラーです。
// 元のパニック値とスタックトレースを保持します。
type PanicError struct {
	// PanicValue はpanic()に渡された元の値
	PanicValue interface{}

	// StackTrace はパニック発生時点のスタックトレース
	StackTrace string

	// Operation はパニックを回復した場所の識別名
	Operation string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in %s: %v", e.Operation, e.PanicValue)
}

// Unwrap returns nil. A bare PanicError wraps nothing.
func (e *PanicError) Unwrap() error {
	return nil
}

// String はスタックトレースを含む詳細表現を返します。
func (e *PanicError) String() string {
	return fmt.Sprintf("panic in %s: %v\nStack trace:\n%s",
		e.Operation, e.PanicValue, e.StackTrace)
}

// NewPanicError は現在のスタックトレース付きでPanicErrorを作成します。
func NewPanicError(operation string, panicValue interface{}) *PanicError {
	return &PanicError{
		PanicValue: panicValue,
		StackTrace: string(debug.Stack()),
		Operation:  operation,
	}
}

// Recover はdeferから呼び出してパニックをエラーに変換します。
// 呼び出し元の名前付き戻り値errへのポインタを渡します。
//
//	func (t *Trainer) Fit() (err error) {
//	    defer errors.Recover(&err, "Trainer.Fit")
//	    ...
//	}
//
// errに既にエラーが入っている場合は、パニック情報でラップして両方を保持します。
func Recover(err *error, operation string) {
	if r := recover(); r != nil {
		if *err != nil {
			*err = fmt.Errorf("panic in %s: %v (original error: %w)",
				operation, r, *err)
			return
		}
		*err = NewPanicError(operation, r)
	}
}

// SafeExecute はfnを実行し、パニックが起きた場合はPanicErrorとして返します。
//
//	err := errors.SafeExecute("matrix inversion", func() error {
//	    return someOperation()
//	})
func SafeExecute(operation string, fn func() error) (err error) {
	defer Recover(&err, operation)
	return fn()
}
