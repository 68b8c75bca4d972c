// Package model provides core interfaces and base types shared by evigo models.
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を行う
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Scorer はスコア計算が可能なモデルのインターフェース
type Scorer interface {
	// Score はモデルの決定係数（R²）を計算する
	Score(X, y mat.Matrix) (float64, error)
}

// Regressor は回帰モデルのインターフェース
type Regressor interface {
	Fitter
	Predictor
	Scorer
}

// ParameterGetter はハイパーパラメータを公開するモデルのインターフェース
type ParameterGetter interface {
	// GetParams はモデルのハイパーパラメータを返す
	GetParams() map[string]interface{}
}

// ParameterSetter はハイパーパラメータを設定可能なモデルのインターフェース
type ParameterSetter interface {
	// SetParams はモデルのハイパーパラメータを設定する
	SetParams(params map[string]interface{}) error
}

// Persistable は保存・復元が可能なモデルのインターフェース
type Persistable interface {
	// Save はモデルをファイルに保存する
	Save(path string) error

	// Load はモデルをファイルから復元する
	Load(path string) error
}
