package model

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"
)

// SaveModel は学習済みモデルをgob形式でファイルに書き出します。
// BaseEstimatorを埋め込んだ構造体をそのまま渡せます。
//
//	var clf ensemble.RandomForestClassifier
//	err := model.SaveModel(&clf, "model.gob")
func SaveModel(model interface{}, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create model file: %w", err)
	}
	defer file.Close()
	return SaveModelToWriter(model, file)
}

// LoadModel はSaveModelで書き出したファイルからモデルを復元します。
// modelには保存時と同じ型のポインタを渡します。
func LoadModel(model interface{}, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("open model file: %w", err)
	}
	defer file.Close()
	return LoadModelFromReader(model, file)
}

// SaveModelToWriter はモデルをgobエンコードしてwに書き込みます。
func SaveModelToWriter(model interface{}, w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(model); err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	return nil
}

// LoadModelFromReader はrからgobストリームを読んでmodelに復元します。
func LoadModelFromReader(model interface{}, r io.Reader) error {
	if err := gob.NewDecoder(r).Decode(model); err != nil {
		return fmt.Errorf("decode model: %w", err)
	}
	return nil
}
