package service

// ToastKind distinguishes success and failure notices
type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastFailure ToastKind = "failure"
)

// Toast is a one-shot notice shown on the next render
type Toast struct {
	Kind    ToastKind
	Message string
}
