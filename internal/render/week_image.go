package render

import (
	"bytes"
	"image/color"
	"sync"
	"time"

	"github.com/Freeeeeet/study_planner/internal/schedule"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontStyle определяет стиль шрифта
type FontStyle string

const (
	FontStyleDefault FontStyle = ""
	FontStyleMedium  FontStyle = "medium"
	FontStyleBold    FontStyle = "bold"
)

// Константы размеров и отступов
const (
	imageWidth       = 1400
	imageHeight      = 900
	headerHeight     = 100
	leftLabelsWidth  = 80
	legendWidth      = 140
	dayPaddingX      = 8
	minBlockHeight   = 8.0
	blockRadius      = 6.0
	shadowOffset     = 3.0
	hourPaddingTop   = 1
	hourPaddingBot   = 1
	defaultMinHour   = 8
	defaultMaxHour   = 18
	maxLabelLength   = 22
	minHeightForText = 25.0
)

// Константы шрифтов
const (
	titleFontSize      = 25.0
	dayFontSize        = 27.0
	hourLabelFontSize  = 18.0
	blockTimeFontSize  = 16.0
	legendItemFontSize = 13.0
)

// Цветовая схема
var (
	bgColor          = color.RGBA{245, 246, 248, 255}
	textColor        = color.RGBA{80, 85, 90, 220}
	hourLabelColor   = color.RGBA{110, 115, 120, 200}
	hourLineColor    = color.NRGBA{150, 150, 150, 255}
	todayBgColor     = color.NRGBA{255, 99, 71, 80}
	evenDayColor     = color.NRGBA{240, 240, 240, 255}
	oddDayColor      = color.NRGBA{220, 220, 220, 255}
	currentTimeColor = color.NRGBA{255, 80, 80, 200}

	lectureColor    = color.RGBA{160, 196, 255, 230}
	laboratoryColor = color.RGBA{255, 214, 153, 230}
	ongoingColor    = color.RGBA{133, 193, 85, 230}
	upcomingColor   = color.RGBA{130, 170, 240, 230}
	endedColor      = color.RGBA{190, 190, 190, 200}
	blockTextColor  = color.RGBA{20, 24, 28, 230}
	blockShadow     = color.RGBA{0, 0, 0, 20}

	legendItemColor = color.RGBA{70, 74, 78, 220}
)

// hourRange диапазон часов для отображения
type hourRange struct {
	start int
	end   int
	total int
}

var fontData = map[FontStyle][]byte{
	FontStyleDefault: goregular.TTF,
	FontStyleMedium:  gomedium.TTF,
	FontStyleBold:    gobold.TTF,
}

var (
	fontsMu     sync.Mutex
	cachedFonts = make(map[FontStyle]*opentype.Font)
)

// loadFont выставляет шрифт указанного стиля или basicfont, если разобрать его не вышло
func loadFont(dc *gg.Context, size float64, style FontStyle) {
	fontsMu.Lock()
	parsed, ok := cachedFonts[style]
	if !ok {
		// nil в кеше означает, что стиль не разбирается и нужен fallback
		parsed, _ = opentype.Parse(fontData[style])
		cachedFonts[style] = parsed
	}
	fontsMu.Unlock()

	if parsed != nil {
		face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err == nil {
			dc.SetFontFace(face)
			return
		}
	}
	dc.SetFontFace(basicfont.Face7x13)
}

// WeekImage рисует учебную неделю (понедельник-пятница), в которую попадает now.
// Блоки сегодняшнего дня раскрашены по статусу относительно now, остальные по типу занятия.
func WeekImage(days map[time.Weekday]schedule.Day, now time.Time) ([]byte, error) {
	monday := weekStart(now)
	hours := calculateHourRange(days)

	dc := createCanvas()
	dayWidth := (imageWidth - leftLabelsWidth - legendWidth) / schoolDays
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total)

	drawHeader(dc, monday)
	drawHourLabels(dc, hours, cellHeight)

	nowMinute := schedule.MinuteOfDay(now)
	showToday := false
	for i := 0; i < schoolDays; i++ {
		date := monday.AddDate(0, 0, i)
		x := float64(leftLabelsWidth + i*dayWidth)
		y := float64(headerHeight)
		isToday := isSameDay(date, now)
		showToday = showToday || isToday

		drawDayBackground(dc, x, y, dayWidth, dayHeight, i, isToday)
		drawDayHeader(dc, date, x, y, dayWidth)
		drawHourLines(dc, x, y, dayWidth, hours, cellHeight)

		for _, b := range days[date.Weekday()].Blocks {
			fill := kindColor(b.Kind)
			if isToday {
				fill = statusColor(schedule.Classify(b, nowMinute))
			}
			drawBlock(dc, b, fill, x, y, dayWidth, hours, cellHeight)
		}
	}

	if showToday {
		drawCurrentTimeLine(dc, nowMinute, hours, cellHeight, dayWidth)
	}
	drawLegend(dc, dayWidth)

	return encodeImage(dc)
}

const schoolDays = 5

// weekStart понедельник недели, в которую попадает t; выходные относятся к следующей неделе
func weekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	switch day.Weekday() {
	case time.Saturday:
		return day.AddDate(0, 0, 2)
	case time.Sunday:
		return day.AddDate(0, 0, 1)
	default:
		return day.AddDate(0, 0, -int(day.Weekday()-time.Monday))
	}
}

// calculateHourRange определяет диапазон часов по всем блокам недели
func calculateHourRange(days map[time.Weekday]schedule.Day) hourRange {
	minHour := 24
	maxHour := 0

	for _, day := range days {
		for _, b := range day.Blocks {
			startH := b.StartMinute / 60
			endH := b.EndMinute / 60
			if b.EndMinute%60 > 0 {
				endH++
			}
			if startH < minHour {
				minHour = startH
			}
			if endH > maxHour {
				maxHour = endH
			}
		}
	}

	if minHour == 24 {
		minHour = defaultMinHour
		maxHour = defaultMaxHour
	}

	startHour := minHour - hourPaddingTop
	endHour := maxHour + hourPaddingBot
	if startHour < 0 {
		startHour = 0
	}
	if endHour > 24 {
		endHour = 24
	}

	return hourRange{
		start: startHour,
		end:   endHour,
		total: endHour - startHour,
	}
}

// createCanvas создает новый контекст рисования с фоном
func createCanvas() *gg.Context {
	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()
	return dc
}

// drawHeader рисует заголовок с датами недели
func drawHeader(dc *gg.Context, monday time.Time) {
	friday := monday.AddDate(0, 0, schoolDays-1)
	title := monday.Format("January 2") + " - " + friday.Format("January 2, 2006")

	loadFont(dc, titleFontSize, FontStyleBold)
	dc.SetColor(textColor)
	_, h := dc.MeasureString(title)
	dc.DrawStringAnchored(title, float64(leftLabelsWidth), float64(headerHeight)/8+h/2, 0, 0)
}

// drawHourLabels рисует колонку с часами слева
func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	loadFont(dc, hourLabelFontSize, FontStyleMedium)
	dc.SetColor(hourLabelColor)

	for hIdx := 0; hIdx <= hours.total; hIdx++ {
		y := float64(headerHeight) + float64(hIdx)*cellHeight
		dc.DrawStringAnchored(schedule.Format24((hours.start+hIdx)*60%schedule.MinutesPerDay), float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

func isSameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// drawDayBackground рисует фон дня
func drawDayBackground(dc *gg.Context, x, y float64, dayWidth, dayHeight, dayIndex int, isToday bool) {
	switch {
	case isToday:
		dc.SetColor(todayBgColor)
	case dayIndex%2 == 0:
		dc.SetColor(evenDayColor)
	default:
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
	dc.Fill()
}

// drawDayHeader рисует название дня недели и дату
func drawDayHeader(dc *gg.Context, date time.Time, x, y float64, dayWidth int) {
	loadFont(dc, dayFontSize, FontStyleBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(date.Format("02.01"), x+float64(dayWidth)/2, y, 0.5, -1)
	dc.DrawStringAnchored(date.Format("Mon"), x+float64(dayWidth)/2, y, 0.5, -0.2)
}

// drawHourLines рисует горизонтальные линии часов
func drawHourLines(dc *gg.Context, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)

	for hIdx := 0; hIdx <= hours.total; hIdx++ {
		hy := y + float64(hIdx)*cellHeight
		dc.DrawLine(x, hy, x+float64(dayWidth), hy)
		dc.Stroke()
	}
}

// drawBlock рисует одно занятие
func drawBlock(dc *gg.Context, b schedule.Block, fill color.RGBA, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	startHour := float64(b.StartMinute) / 60.0
	endHour := float64(b.EndMinute) / 60.0

	blockY := y + (startHour-float64(hours.start))*cellHeight
	blockHeight := (endHour - startHour) * cellHeight
	if blockHeight < minBlockHeight {
		blockHeight = minBlockHeight
	}
	blockWidth := float64(dayWidth) - float64(dayPaddingX*2)

	// Тень
	dc.SetColor(blockShadow)
	dc.DrawRoundedRectangle(x+dayPaddingX+shadowOffset, blockY+2+shadowOffset, blockWidth, blockHeight-4, blockRadius)
	dc.Fill()

	dc.SetColor(fill)
	dc.DrawRoundedRectangle(x+float64(dayPaddingX), blockY+2, blockWidth, blockHeight-4, blockRadius)
	dc.Fill()

	// Рамка
	dc.SetColor(darkenColor(fill, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x+float64(dayPaddingX), blockY+2, blockWidth, blockHeight-4, blockRadius)
	dc.Stroke()

	loadFont(dc, blockTimeFontSize, FontStyleMedium)
	dc.SetColor(blockTextColor)
	txtX := x + float64(dayPaddingX) + 8
	txtY := blockY + 18
	dc.DrawStringAnchored(schedule.Format24(b.StartMinute)+"-"+schedule.Format24(b.EndMinute), txtX, txtY, 0, 0)

	if blockHeight > minHeightForText {
		loadFont(dc, blockTimeFontSize-2, FontStyleDefault)
		dc.DrawStringAnchored(truncate(b.Label, maxLabelLength), txtX, txtY+16, 0, 0)
	}
	if b.Location != "" && blockHeight > 2*minHeightForText {
		dc.DrawStringAnchored(truncate(b.Location, maxLabelLength), txtX, txtY+32, 0, 0)
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func kindColor(kind schedule.Kind) color.RGBA {
	if kind == schedule.KindLaboratory {
		return laboratoryColor
	}
	return lectureColor
}

func statusColor(status schedule.Status) color.RGBA {
	switch status {
	case schedule.StatusOngoing:
		return ongoingColor
	case schedule.StatusUpcoming:
		return upcomingColor
	default:
		return endedColor
	}
}

// darkenColor затемняет цвет на указанный множитель
func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

// drawCurrentTimeLine рисует красную линию текущего времени
func drawCurrentTimeLine(dc *gg.Context, nowMinute int, hours hourRange, cellHeight float64, dayWidth int) {
	currentHour := float64(nowMinute) / 60.0
	if currentHour < float64(hours.start) || currentHour > float64(hours.end) {
		return
	}

	y := float64(headerHeight) + (currentHour-float64(hours.start))*cellHeight
	dc.SetColor(currentTimeColor)
	dc.SetLineWidth(2.0)
	dc.DrawLine(float64(leftLabelsWidth), y, float64(leftLabelsWidth+schoolDays*dayWidth), y)
	dc.Stroke()
}

// drawLegend рисует легенду справа
func drawLegend(dc *gg.Context, dayWidth int) {
	legendX := float64(leftLabelsWidth + schoolDays*dayWidth + 10)
	legendY := float64(imageHeight) - 190.0

	items := []struct {
		label string
		clr   color.Color
	}{
		{"Lecture", lectureColor},
		{"Laboratory", laboratoryColor},
		{"Ongoing", ongoingColor},
		{"Upcoming", upcomingColor},
		{"Ended", endedColor},
	}

	boxW := 20.0
	boxH := 14.0
	liY := legendY + 22

	for _, item := range items {
		dc.SetColor(item.clr)
		dc.DrawRoundedRectangle(legendX, liY, boxW, boxH, 3)
		dc.Fill()

		loadFont(dc, legendItemFontSize, FontStyleDefault)
		dc.SetColor(legendItemColor)
		dc.DrawStringAnchored(item.label, legendX+boxW+8, liY+boxH/2+1, 0, 0.2)
		liY += boxH + 14
	}
}

// encodeImage кодирует изображение в PNG
func encodeImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
