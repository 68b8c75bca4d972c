// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// Belief Rule Base 特有のエラー分類（参照集合・形状・推論不変条件）と、
// scikit-learn風の警告システムを構造化された形で提供します。
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("evigo-Warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler はライブラリ全体の警告ハンドラを設定します。
// ConvergenceWarningなどの警告の処理方法を制御できます。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが設定されている場合は構造化ログとして出力し、そうでなければハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	警告型
//
// ===========================================================================

// ConvergenceWarning は最適化アルゴリズムが収束しなかった場合に発生する警告です。
// 学習は失敗扱いにはならず、発見された最良のパラメータが保持されます。
type ConvergenceWarning struct {
	Algorithm  string
	Iterations int
	Message    string
}

func (w *ConvergenceWarning) Error() string {
	if w.Message != "" {
		return fmt.Sprintf("%s failed to converge after %d iterations: %s", w.Algorithm, w.Iterations, w.Message)
	}
	return fmt.Sprintf("%s failed to converge after %d iterations. Consider increasing max_iter or adjusting parameters.", w.Algorithm, w.Iterations)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *ConvergenceWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("algorithm", w.Algorithm).
		Int("iterations", w.Iterations).
		Str("message", w.Message).
		Str("type", "ConvergenceWarning")
}

// NewConvergenceWarning は新しいConvergenceWarningを作成します。
func NewConvergenceWarning(algorithm string, iterations int, message string) *ConvergenceWarning {
	return &ConvergenceWarning{Algorithm: algorithm, Iterations: iterations, Message: message}
}

// ===========================================================================
//
//	BRB固有の構造化されたエラー型
//
// ===========================================================================

// ReferentialSetError は参照集合（referential set）の構築に失敗した場合のエラーです。
// 値が2個未満、または狭義単調増加でない場合に発生します。
type ReferentialSetError struct {
	Name   string // 対象の集合名（例: "attribute[0]", "output"）
	Reason string
	Values []float64
}

func (e *ReferentialSetError) Error() string {
	return fmt.Sprintf("evigo: invalid referential set %s: %s (values: %v)", e.Name, e.Reason, e.Values)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ReferentialSetError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("set_name", e.Name).
		Str("reason", e.Reason).
		Floats64("values", e.Values).
		Str("type", "ReferentialSetError")
}

// NewReferentialSetError は新しいReferentialSetErrorを作成し、スタックトレースを付与します。
func NewReferentialSetError(name, reason string, values []float64) error {
	err := &ReferentialSetError{Name: name, Reason: reason, Values: values}
	return errors.WithStack(err)
}

// ShapeMismatchError はパラメータ配列の形状がルールベースの期待形状と
// 一致しない場合のエラーです。
type ShapeMismatchError struct {
	Op       string
	Field    string // 不一致が起きたフィールド（例: "rule_weights", "flat_vector"）
	Expected int
	Got      int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("evigo: %s: shape mismatch for %s. Expected %d, got %d", e.Op, e.Field, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ShapeMismatchError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("field", e.Field).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Str("type", "ShapeMismatchError")
}

// NewShapeMismatchError は新しいShapeMismatchErrorを作成し、スタックトレースを付与します。
func NewShapeMismatchError(op, field string, expected, got int) error {
	err := &ShapeMismatchError{Op: op, Field: field, Expected: expected, Got: got}
	return errors.WithStack(err)
}

// NoActivatedRulesError は入力に対して活性化するルールが一つも存在しない場合の
// エラーです。クランプされたマッチングの下では通常発生しません（内部不変条件の破れ）。
type NoActivatedRulesError struct {
	Op    string
	Input []float64
}

func (e *NoActivatedRulesError) Error() string {
	return fmt.Sprintf("evigo: %s: no rules activated for input %v", e.Op, e.Input)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NoActivatedRulesError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Floats64("input", e.Input).
		Str("type", "NoActivatedRulesError")
}

// NewNoActivatedRulesError は新しいNoActivatedRulesErrorを作成し、スタックトレースを付与します。
func NewNoActivatedRulesError(op string, input []float64) error {
	err := &NoActivatedRulesError{Op: op, Input: input}
	return errors.WithStack(err)
}

// InvariantViolationError は推論中に数値的不変条件（信念度が[0,1]の範囲内、
// 総和が1以下など）が破れた場合のエラーです。実装または数値誤差の欠陥を示すため、
// クランプで隠蔽せずに呼び出し元へ報告します。
type InvariantViolationError struct {
	Op     string
	Reason string
	Values []float64
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("evigo: %s: invariant violation: %s (values: %v)", e.Op, e.Reason, e.Values)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *InvariantViolationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("reason", e.Reason).
		Floats64("values", e.Values).
		Str("type", "InvariantViolationError")
}

// NewInvariantViolationError は新しいInvariantViolationErrorを作成し、スタックトレースを付与します。
func NewInvariantViolationError(op, reason string, values []float64) error {
	err := &InvariantViolationError{Op: op, Reason: reason, Values: values}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	汎用の構造化されたエラー型
//
// ===========================================================================

// NotFittedError はモデルが未学習の状態で `Predict` などを呼び出した場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("evigo: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError は新しいNotFittedErrorを作成し、スタックトレースを付与します。
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("evigo: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValueError は引数の値が不適切または不正な場合に発生するエラーです。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("evigo: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")
)
