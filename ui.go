package main

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/P8labs/foxctl/event"
	"github.com/P8labs/foxctl/model"
)

// columns

type Column struct {
	name  string
	width int
}

var columns = []Column{
	{"MAC Address", 20},
	{"MAC Vendor", 28},
	{"IP Address", 18},
	{"Name", 24},
	{"Status", 10},
	{"Last seen", 30},
	{"Polls", 8},
}

// ui data structure

type UIEntry struct {
	MAC       string
	MACVendor string
	IP        string
	Name      string
	Status    model.DeviceStatus
	LastSeen  string
	Count     int
}

// virtual table: https://github.com/rivo/tview/wiki/VirtualTable

type UIApp struct {
	tview.TableContentReadOnly
	app     *tview.Application
	title   *tview.TextView
	baseURL string
	done    chan struct{}
	mu      sync.Mutex
	data    []UIEntry
}

func newUIApp(baseURL string) *UIApp {
	uiApp := &UIApp{
		TableContentReadOnly: tview.TableContentReadOnly{},
		app:                  tview.NewApplication(),
		title:                tview.NewTextView().SetTextAlign(tview.AlignLeft),
		baseURL:              baseURL,
		done:                 make(chan struct{}),
	}
	uiApp.title.SetText(titleBar(baseURL, ""))
	return uiApp
}

func (uiApp *UIApp) upsert(deviceEvent event.DeviceEvent) {
	uiApp.mu.Lock()
	defer uiApp.mu.Unlock()

	device := deviceEvent.Device
	entry := UIEntry{
		MAC:       device.MACAddress,
		MACVendor: deviceEvent.MacVendor,
		IP:        device.IP(),
		Name:      device.DisplayName(),
		Status:    device.Status,
		LastSeen:  device.LastSeen,
		Count:     deviceEvent.Count,
	}

	// update, if found
	for i := range uiApp.data {
		if uiApp.data[i].MAC == entry.MAC {
			uiApp.data[i] = entry
			return
		}
	}

	// insert, if new
	uiApp.data = append(uiApp.data, entry)
}

func (uiApp *UIApp) setUptime(seconds uint64) {
	uiApp.title.SetText(titleBar(uiApp.baseURL, model.FormatUptime(seconds)))
}

// refresh never blocks the caller. Draw waits for the event loop, which is
// gone once run has returned.
func (uiApp *UIApp) refresh() {
	select {
	case <-uiApp.done:
		return
	default:
	}
	go uiApp.app.Draw()
}

func (uiApp *UIApp) entries() []UIEntry {
	uiApp.mu.Lock()
	defer uiApp.mu.Unlock()
	return append([]UIEntry(nil), uiApp.data...)
}

func (uiApp *UIApp) GetCell(row int, col int) *tview.TableCell {
	uiApp.mu.Lock()
	defer uiApp.mu.Unlock()
	if row < 0 || row >= len(uiApp.data) {
		return nil
	}

	entry := uiApp.data[row]
	switch col {
	case 0:
		return tview.NewTableCell(alignLeft(" "+entry.MAC, columns[0].width-1))
	case 1:
		return tview.NewTableCell(alignLeft(truncate(entry.MACVendor, columns[1].width-1), columns[1].width-1))
	case 2:
		return tview.NewTableCell(alignLeft(truncate(orDash(entry.IP), columns[2].width-1), columns[2].width-1))
	case 3:
		return tview.NewTableCell(alignLeft(truncate(entry.Name, columns[3].width-1), columns[3].width-1))
	case 4:
		return tview.NewTableCell(alignLeft(string(entry.Status), columns[4].width-1)).
			SetTextColor(statusColor(entry.Status))
	case 5:
		return tview.NewTableCell(alignLeft(truncate(entry.LastSeen, columns[5].width-1), columns[5].width-1))
	default:
		return tview.NewTableCell(alignRight(strconv.Itoa(entry.Count), columns[6].width-2))
	}
}

func (uiApp *UIApp) GetRowCount() int {
	uiApp.mu.Lock()
	defer uiApp.mu.Unlock()
	return len(uiApp.data)
}

func (uiApp *UIApp) GetColumnCount() int {
	return len(columns)
}

// run blocks until the user quits or stop is called.
func (uiApp *UIApp) run() error {
	defer close(uiApp.done)

	headerRow := getHeaderRow()
	table := tview.NewTable().SetEvaluateAllRows(false)
	table.SetContent(uiApp)

	newTextView := func(text string, align int) tview.Primitive {
		return tview.NewTextView().
			SetTextAlign(align).
			SetText(text)
	}

	menuBar := " ▲ - Scroll Up  |  ▼ - Scroll Down  |  Q / ESC - Quit"
	grid := tview.NewGrid().
		SetRows(1, 1, 0, 1).
		SetColumns(0, 0, 0, 0).
		SetBorders(true).
		AddItem(uiApp.title, 0, 0, 1, 4, 0, 0, false).
		AddItem(newTextView(headerRow, tview.AlignLeft), 1, 0, 1, 4, 0, 0, false).
		AddItem(table, 2, 0, 1, 4, 0, 0, true).
		AddItem(newTextView(menuBar, tview.AlignLeft), 3, 0, 1, 4, 0, 0, false)

	grid.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Rune() == 'q' || event.Key() == tcell.KeyEsc {
			uiApp.app.Stop()
			return nil
		} else if event.Key() == tcell.KeyLeft || event.Key() == tcell.KeyRight {
			return nil
		}
		return event
	})

	if err := uiApp.app.SetRoot(grid, true).Run(); err != nil {
		return fmt.Errorf("unable to load the UI: %w", err)
	}
	return nil
}

func (uiApp *UIApp) stop() {
	uiApp.app.Stop()
}

func titleBar(baseURL string, uptime string) string {
	if uptime == "" {
		return fmt.Sprintf(" foxctl  |  API: %v ", baseURL)
	}
	return fmt.Sprintf(" foxctl  |  API: %v  |  Daemon uptime: %v ", baseURL, uptime)
}

func statusColor(status model.DeviceStatus) tcell.Color {
	switch model.StatusColor(status) {
	case "success":
		return tcell.ColorGreen
	case "danger":
		return tcell.ColorRed
	default:
		return tcell.ColorGray
	}
}

func getHeaderRow() string {
	var headers string
	for i, col := range columns {
		var header string
		if i == 0 {
			header = " " + col.name
		} else {
			header = col.name
		}
		headers += alignLeft(header, col.width)
	}
	return headers
}

func truncate(text string, width int) string {
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	return string(runes[:width-3]) + "..."
}

func alignLeft(text string, len int) string {
	format := fmt.Sprintf("%%-%vs", len)
	return fmt.Sprintf(format, text)
}

func alignRight(text string, len int) string {
	format := fmt.Sprintf("%%%vs", len)
	return fmt.Sprintf(format, text)
}
