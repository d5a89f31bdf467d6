package utils

type ResourceSource interface {
	Name() string
	Size() int64
}
