package entity

// Category representa una categoría de productos del catálogo.
type Category struct {
	ID          int64
	Name        string
	Description string
}
