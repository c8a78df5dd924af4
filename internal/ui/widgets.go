package ui

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"gioui.org/font"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"voiceroll/internal/extract"
	"voiceroll/internal/i18n"
	"voiceroll/internal/ledger"
)

// Color palette - dark theme
var (
	colorBG       = color.NRGBA{R: 30, G: 30, B: 34, A: 255}
	colorPanel    = color.NRGBA{R: 45, G: 45, B: 50, A: 255}
	colorRow      = color.NRGBA{R: 38, G: 38, B: 43, A: 255}
	colorText     = color.NRGBA{R: 240, G: 240, B: 245, A: 255}
	colorTextDim  = color.NRGBA{R: 140, G: 140, B: 150, A: 255}
	colorAccent   = color.NRGBA{R: 88, G: 166, B: 255, A: 255}
	colorRecord   = color.NRGBA{R: 220, G: 50, B: 50, A: 255}
	colorSuccess  = color.NRGBA{R: 80, G: 200, B: 120, A: 255}
	colorWarning  = color.NRGBA{R: 255, G: 180, B: 0, A: 255}
	colorDisabled = color.NRGBA{R: 60, G: 60, B: 66, A: 255}
)

func theme(fg color.NRGBA) *material.Theme {
	th := material.NewTheme()
	th.Palette.Fg = fg
	th.Palette.ContrastBg = colorAccent
	return th
}

func label(gtx layout.Context, size unit.Sp, fg color.NRGBA, s string) layout.Dimensions {
	return material.Label(theme(fg), size, s).Layout(gtx)
}

func (w *Window) draw(gtx layout.Context) layout.Dimensions {
	paint.FillShape(gtx.Ops, colorBG, clip.Rect{Max: gtx.Constraints.Max}.Op())

	s := w.snapshot()

	dims := w.drawContent(gtx, s)
	if s.phase == PhaseLoading {
		drawLoadingOverlay(gtx, s.loadingModel)
	}
	return dims
}

func (w *Window) drawContent(gtx layout.Context, s viewState) layout.Dimensions {
	return layout.UniformInset(unit.Dp(20)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return w.drawHeader(gtx, s)
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(16)}.Layout),

			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return w.drawLanguagePanel(gtx, s)
			}),

			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				if s.modelMissing == "" && s.phase != PhaseDownloading {
					return layout.Dimensions{}
				}
				return layout.Inset{Top: unit.Dp(12)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
					return w.drawModelPanel(gtx, s)
				})
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(16)}.Layout),

			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return w.drawControls(gtx, s)
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(12)}.Layout),

			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return w.drawStatus(gtx, s)
			}),

			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				if s.transcript == "" {
					return layout.Dimensions{}
				}
				return layout.Inset{Top: unit.Dp(12)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
					return drawPanel(gtx, func(gtx layout.Context) layout.Dimensions {
						return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
							layout.Rigid(func(gtx layout.Context) layout.Dimensions {
								return drawSectionHeader(gtx, i18n.T("ui_transcript"))
							}),
							layout.Rigid(layout.Spacer{Height: unit.Dp(6)}.Layout),
							layout.Rigid(func(gtx layout.Context) layout.Dimensions {
								return label(gtx, unit.Sp(15), colorText, s.transcript)
							}),
						)
					})
				})
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(16)}.Layout),

			layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
				return w.drawTable(gtx, s.session, s.saved)
			}),
		)
	})
}

func (w *Window) drawHeader(gtx layout.Context, s viewState) layout.Dimensions {
	return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			lbl := material.Label(theme(colorText), unit.Sp(22), i18n.T("ui_title"))
			lbl.Font.Weight = font.Bold
			return lbl.Layout(gtx)
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			if s.hotkey == "" {
				return layout.Dimensions{}
			}
			return drawButton(gtx, &w.hotkeyBtn, i18n.Tf("ui_hotkey", s.hotkey), colorPanel, colorTextDim, true)
		}),
	)
}

func (w *Window) drawLanguagePanel(gtx layout.Context, s viewState) layout.Dimensions {
	return drawPanel(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return drawSectionHeader(gtx, i18n.T("ui_language"))
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				th := theme(colorText)
				if s.phase != PhaseIdle {
					gtx = gtx.Disabled()
				}
				return layout.Flex{Axis: layout.Horizontal}.Layout(gtx,
					layout.Rigid(material.RadioButton(th, &w.langEnum, string(extract.English), i18n.T("ui_lang_english")).Layout),
					layout.Rigid(layout.Spacer{Width: unit.Dp(16)}.Layout),
					layout.Rigid(material.RadioButton(th, &w.langEnum, string(extract.Chinese), i18n.T("ui_lang_chinese")).Layout),
				)
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(12)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return drawSectionHeader(gtx, i18n.T("ui_ui_language"))
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				current := i18n.GetLanguage()
				langs := i18n.AvailableLanguages()
				children := make([]layout.FlexChild, 0, len(langs)*2)
				for i, lang := range langs {
					if i > 0 {
						children = append(children, layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout))
					}
					btn := w.uiLangBtns[lang]
					bg, fg := colorBG, colorTextDim
					if lang == current {
						bg, fg = colorAccent, colorText
					}
					name := i18n.LanguageName(lang)
					children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
						return drawButton(gtx, btn, name, bg, fg, true)
					}))
				}
				return layout.Flex{Axis: layout.Horizontal}.Layout(gtx, children...)
			}),
		)
	})
}

func (w *Window) drawModelPanel(gtx layout.Context, s viewState) layout.Dimensions {
	return drawPanel(gtx, func(gtx layout.Context) layout.Dimensions {
		if s.phase == PhaseDownloading {
			return drawProgressBar(gtx, s.progress, colorWarning,
				fmt.Sprintf("%s... %.0f%%", i18n.T("ui_downloading"), s.progress*100))
		}
		return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
			layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
				return label(gtx, unit.Sp(13), colorWarning, i18n.Tf("ui_model_missing", s.modelMissing))
			}),
			layout.Rigid(layout.Spacer{Width: unit.Dp(12)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return drawButton(gtx, &w.downloadBtn, i18n.T("ui_download"), colorAccent, colorText, s.phase == PhaseIdle)
			}),
		)
	})
}

func (w *Window) drawControls(gtx layout.Context, s viewState) layout.Dimensions {
	canStart := s.phase == PhaseIdle && s.modelMissing == ""
	canStop := s.phase == PhaseListening

	return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			bg := colorSuccess
			if !canStart {
				bg = colorDisabled
			}
			return drawButton(gtx, &w.startBtn, i18n.T("ui_start"), bg, colorBG, canStart)
		}),
		layout.Rigid(layout.Spacer{Width: unit.Dp(12)}.Layout),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			bg := colorRecord
			if !canStop {
				bg = colorDisabled
			}
			return drawButton(gtx, &w.stopBtn, i18n.T("ui_stop"), bg, colorText, canStop)
		}),
	)
}

func (w *Window) drawStatus(gtx layout.Context, s viewState) layout.Dimensions {
	fg := colorTextDim
	if s.statusError {
		fg = colorRecord
	}

	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return label(gtx, unit.Sp(13), fg, s.status)
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			if s.phase != PhaseListening {
				return layout.Dimensions{}
			}
			return layout.Inset{Top: unit.Dp(8)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
					// Level meter
					layout.Rigid(func(gtx layout.Context) layout.Dimensions {
						return drawBar(gtx, levelScale(s.level), colorSuccess)
					}),
					layout.Rigid(layout.Spacer{Height: unit.Dp(6)}.Layout),
					// Countdown
					layout.Rigid(func(gtx layout.Context) layout.Dimensions {
						var done float64
						if s.listenFor > 0 {
							done = 1 - float64(s.remaining)/float64(s.listenFor)
						}
						return drawProgressBar(gtx, done, colorAccent,
							fmt.Sprintf("%.1f s", s.remaining.Round(100*time.Millisecond).Seconds()))
					}),
				)
			})
		}),
	)
}

// levelScale stretches quiet speech: RMS of normal speech is well under 0.3.
func levelScale(rms float64) float64 {
	v := rms * 4
	if v > 1 {
		v = 1
	}
	return v
}

func (w *Window) drawTable(gtx layout.Context, session, saved []ledger.Record) layout.Dimensions {
	total := len(session) + len(saved)

	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return drawSectionHeader(gtx, i18n.T("ui_table"))
		}),
		layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return drawRow(gtx, colorPanel, colorTextDim, font.Bold, i18n.T("ui_col_name"), i18n.T("ui_col_country"), "")
		}),
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			if total == 0 {
				return layout.Inset{Top: unit.Dp(12)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
					return label(gtx, unit.Sp(13), colorTextDim, i18n.T("ui_empty"))
				})
			}
			return material.List(theme(colorTextDim), &w.table).Layout(gtx, total, func(gtx layout.Context, i int) layout.Dimensions {
				if i < len(session) {
					r := session[i]
					return drawRow(gtx, colorRow, colorText, font.Normal, r.Name, r.Country, "")
				}
				r := saved[i-len(session)]
				return drawRow(gtx, colorBG, colorTextDim, font.Normal, r.Name, r.Country, i18n.T("ui_from_file"))
			})
		}),
	)
}

func drawRow(gtx layout.Context, bg, fg color.NRGBA, weight font.Weight, name, country, note string) layout.Dimensions {
	macro := op.Record(gtx.Ops)
	dims := layout.Inset{Top: unit.Dp(6), Bottom: unit.Dp(6), Left: unit.Dp(10), Right: unit.Dp(10)}.Layout(gtx,
		func(gtx layout.Context) layout.Dimensions {
			cell := func(s string) layout.Widget {
				return func(gtx layout.Context) layout.Dimensions {
					lbl := material.Label(theme(fg), unit.Sp(14), s)
					lbl.Font.Weight = weight
					lbl.MaxLines = 1
					return lbl.Layout(gtx)
				}
			}
			return layout.Flex{Axis: layout.Horizontal}.Layout(gtx,
				layout.Flexed(1, cell(name)),
				layout.Flexed(1, cell(country)),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					if note == "" {
						return layout.Dimensions{}
					}
					lbl := material.Label(theme(colorTextDim), unit.Sp(11), note)
					lbl.Alignment = text.End
					return lbl.Layout(gtx)
				}),
			)
		})
	call := macro.Stop()

	paint.FillShape(gtx.Ops, bg, clip.Rect{Max: dims.Size}.Op())
	call.Add(gtx.Ops)
	return dims
}

func drawLoadingOverlay(gtx layout.Context, modelName string) {
	paint.FillShape(gtx.Ops, color.NRGBA{R: 20, G: 20, B: 24, A: 220}, clip.Rect{Max: gtx.Constraints.Max}.Op())

	layout.Center.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical, Alignment: layout.Middle}.Layout(gtx,
			layout.Rigid(drawSpinner),
			layout.Rigid(layout.Spacer{Height: unit.Dp(20)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				lbl := material.Label(theme(colorText), unit.Sp(16), i18n.T("ui_loading_model"))
				lbl.Font.Weight = font.Medium
				return lbl.Layout(gtx)
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(6)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return label(gtx, unit.Sp(12), colorTextDim, modelName)
			}),
		)
	})
}

// drawSpinner draws twelve fading dots rotating once per second.
func drawSpinner(gtx layout.Context) layout.Dimensions {
	size := gtx.Dp(unit.Dp(48))
	thickness := gtx.Dp(unit.Dp(4))

	angle := float64(time.Now().UnixMilli()%1000) / 1000.0 * 2 * math.Pi
	center := image.Pt(size/2, size/2)
	radius := size/2 - thickness
	dot := thickness / 2

	const segments = 12
	for i := 0; i < segments; i++ {
		a := angle + float64(i)*2*math.Pi/segments
		x := center.X + int(float64(radius)*math.Cos(a))
		y := center.Y + int(float64(radius)*math.Sin(a))

		ellipse := clip.Ellipse{Min: image.Pt(x-dot, y-dot), Max: image.Pt(x+dot, y+dot)}
		col := colorAccent
		col.A = uint8(255 - i*20)
		paint.FillShape(gtx.Ops, col, ellipse.Op(gtx.Ops))
	}

	return layout.Dimensions{Size: image.Pt(size, size)}
}

func drawSectionHeader(gtx layout.Context, s string) layout.Dimensions {
	lbl := material.Label(theme(colorTextDim), unit.Sp(12), s)
	lbl.Font.Weight = font.Medium
	return lbl.Layout(gtx)
}

func drawPanel(gtx layout.Context, content layout.Widget) layout.Dimensions {
	// First layout content to get its size
	macro := op.Record(gtx.Ops)
	dims := layout.UniformInset(unit.Dp(14)).Layout(gtx, content)
	call := macro.Stop()

	rr := gtx.Dp(unit.Dp(12))
	rect := clip.RRect{
		Rect: image.Rectangle{Max: dims.Size},
		NE:   rr, NW: rr, SE: rr, SW: rr,
	}
	paint.FillShape(gtx.Ops, colorPanel, rect.Op(gtx.Ops))

	call.Add(gtx.Ops)
	return dims
}

func drawBar(gtx layout.Context, fraction float64, fill color.NRGBA) layout.Dimensions {
	height := gtx.Dp(unit.Dp(6))
	width := gtx.Constraints.Max.X
	rr := height / 2

	bg := clip.RRect{
		Rect: image.Rectangle{Max: image.Pt(width, height)},
		NE:   rr, NW: rr, SE: rr, SW: rr,
	}
	paint.FillShape(gtx.Ops, colorPanel, bg.Op(gtx.Ops))

	if fraction > 1 {
		fraction = 1
	}
	if fillWidth := int(float64(width) * fraction); fillWidth > 0 {
		fg := clip.RRect{
			Rect: image.Rectangle{Max: image.Pt(fillWidth, height)},
			NE:   rr, NW: rr, SE: rr, SW: rr,
		}
		paint.FillShape(gtx.Ops, fill, fg.Op(gtx.Ops))
	}

	return layout.Dimensions{Size: image.Pt(width, height)}
}

func drawProgressBar(gtx layout.Context, fraction float64, fill color.NRGBA, caption string) layout.Dimensions {
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return drawBar(gtx, fraction, fill)
		}),
		layout.Rigid(layout.Spacer{Height: unit.Dp(4)}.Layout),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return label(gtx, unit.Sp(11), colorTextDim, caption)
		}),
	)
}

func drawButton(gtx layout.Context, btn *widget.Clickable, s string, bg, fg color.NRGBA, enabled bool) layout.Dimensions {
	if !enabled {
		fg = colorTextDim
		gtx = gtx.Disabled()
	}

	macro := op.Record(gtx.Ops)
	dims := material.Clickable(gtx, btn, func(gtx layout.Context) layout.Dimensions {
		return layout.Inset{
			Top: unit.Dp(10), Bottom: unit.Dp(10),
			Left: unit.Dp(18), Right: unit.Dp(18),
		}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			lbl := material.Label(theme(fg), unit.Sp(14), s)
			lbl.Font.Weight = font.Medium
			return lbl.Layout(gtx)
		})
	})
	call := macro.Stop()

	rr := gtx.Dp(unit.Dp(8))
	rect := clip.RRect{
		Rect: image.Rectangle{Max: dims.Size},
		NE:   rr, NW: rr, SE: rr, SW: rr,
	}
	paint.FillShape(gtx.Ops, bg, rect.Op(gtx.Ops))

	call.Add(gtx.Ops)
	return dims
}
