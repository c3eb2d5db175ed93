package model

import "gonum.org/v1/gonum/mat"

// Fitter は訓練データからパラメータを学習するモデルです。
type Fitter interface {
	// Fit はn×d特徴量行列Xとn×1ラベル行列yでモデルを学習する
	Fit(X, y mat.Matrix) error
}

// Predictor は学習済みモデルによる予測です。
type Predictor interface {
	// Predict はXの各行に対する予測値をn×1行列で返す
	Predict(X mat.Matrix) (mat.Matrix, error)
}
