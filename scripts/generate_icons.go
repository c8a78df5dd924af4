//go:build ignore

// Генерация иконок трея.
// Запуск: go run scripts/generate_icons.go [dir]
package main

import (
	"image"
	"image/color"
	"image/png"
	"log"
	"os"
	"path/filepath"
)

const size = 64

func main() {
	dir := "embedded"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Fatalf("Не удалось создать директорию %s: %v", dir, err)
	}

	icons := []struct {
		name  string
		color color.RGBA
	}{
		{"icon_idle.png", color.RGBA{120, 120, 130, 255}},
		{"icon_listening.png", color.RGBA{220, 50, 50, 255}},
		{"icon_loading.png", color.RGBA{60, 120, 220, 255}},
	}

	for _, icon := range icons {
		path := filepath.Join(dir, icon.name)
		if err := writeIcon(path, microphone(icon.color)); err != nil {
			log.Fatalf("Ошибка генерации %s: %v", icon.name, err)
		}
		log.Printf("Создан: %s", path)
	}
}

// microphone рисует капсулу микрофона, дугу держателя и подставку.
func microphone(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	cx := size / 2

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x - cx)

			// Капсула: прямоугольник 20x28 со скруглёнными концами
			capsule := false
			switch {
			case y >= 14 && y <= 30:
				capsule = dx >= -10 && dx <= 10
			case y < 14:
				dy := float64(y - 14)
				capsule = dx*dx+dy*dy <= 100
			case y > 30:
				dy := float64(y - 30)
				capsule = dx*dx+dy*dy <= 100
			}

			// Дуга держателя: кольцо радиусом 16-19 ниже центра капсулы
			dy := float64(y - 28)
			r2 := dx*dx + dy*dy
			arc := y >= 28 && r2 >= 16*16 && r2 <= 19*19

			stand := y > 46 && y <= 54 && dx >= -2 && dx <= 2
			base := y > 54 && y <= 58 && dx >= -12 && dx <= 12

			if capsule || arc || stand || base {
				img.Set(x, y, c)
			}
		}
	}
	return img
}

func writeIcon(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, img)
}
