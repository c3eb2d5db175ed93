package model

import "gonum.org/v1/gonum/mat"

// Transformer は特徴量行列に対する前処理ステップのインターフェースです。
// 学習データでFitした統計量を使い、同じ変換を任意の行列に適用できます。
type Transformer interface {
	// Fit は変換に必要な統計量を学習データから推定する
	Fit(X mat.Matrix) error

	// Transform は学習済みの統計量でXを変換する
	Transform(X mat.Matrix) (mat.Matrix, error)

	// FitTransform はFitした直後に同じデータをTransformする
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// InverseTransformer は逆変換もできるTransformerです。
// スケーリングのように可逆な変換が実装します。
type InverseTransformer interface {
	Transformer

	// InverseTransform は変換後の行列を元のスケールに戻す
	InverseTransform(X mat.Matrix) (mat.Matrix, error)
}
