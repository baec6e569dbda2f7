// Package monitoring turns a running set of carousels into an HTTP server
// that can be inspected and driven from a browser.
package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"
	"go.uber.org/zap"

	"github.com/sarchlab/carousel/monitoring/web"
	"github.com/sarchlab/carousel/rotation"
	"github.com/sarchlab/carousel/timing"
)

// A Carousel is the item-independent surface of a rotation.Controller.
type Carousel interface {
	Name() string
	Next() bool
	Prev() bool
	GoTo(page int) bool
	Resize(width int)
	Status() rotation.Status
}

// An Engine is the part of a timing engine the monitor controls.
type Engine interface {
	timing.TimeTeller
	Pause()
	Continue()
}

// A Resizer pushes a new viewport width to every subscriber.
type Resizer interface {
	Resize(width int)
}

// Monitor can turn a set of carousels into a server and allows external
// monitoring and control.
type Monitor struct {
	lock       sync.Mutex
	engine     Engine
	carousels  map[string]Carousel
	viewport   Resizer
	portNumber int
	logger     *zap.Logger

	server   *http.Server
	listener net.Listener
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{
		carousels: make(map[string]Carousel),
		logger:    zap.NewNop(),
	}
}

// WithPortNumber sets the port number of the monitor. Ports from 1000 up are
// used as given; lower ports are replaced by a random port.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		m.logger.Warn("port not allowed, using a random port",
			zap.Int("port", portNumber))

		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// listenAddr returns the address StartServer listens on. Port 0 picks a
// random port.
func (m *Monitor) listenAddr() string {
	return ":" + strconv.Itoa(m.portNumber)
}

// WithLogger sets the logger of the monitor.
func (m *Monitor) WithLogger(logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}

	m.logger = logger

	return m
}

// RegisterEngine registers the engine that drives the carousels.
func (m *Monitor) RegisterEngine(e Engine) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.engine = e
}

// RegisterViewport registers the viewport that /api/resize updates. Without
// one, every carousel is resized directly.
func (m *Monitor) RegisterViewport(v Resizer) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.viewport = v
}

// RegisterCarousel registers a carousel to be monitored. Registering a second
// carousel under the same name panics.
func (m *Monitor) RegisterCarousel(c Carousel) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if _, dup := m.carousels[c.Name()]; dup {
		panic(fmt.Sprintf("carousel %s is already registered", c.Name()))
	}

	m.carousels[c.Name()] = c
}

// Router returns the HTTP handler of the monitor.
func (m *Monitor) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/pause", m.pauseEngine)
	r.HandleFunc("/api/continue", m.continueEngine)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/list_carousels", m.listCarousels)
	r.HandleFunc("/api/carousel/{name}", m.carouselDetails)
	r.HandleFunc("/api/carousel/{name}/status", m.carouselStatus)
	r.HandleFunc("/api/carousel/{name}/next", m.navigate(Carousel.Next))
	r.HandleFunc("/api/carousel/{name}/prev", m.navigate(Carousel.Prev))
	r.HandleFunc("/api/carousel/{name}/goto/{page:-?[0-9]+}", m.goTo)
	r.HandleFunc("/api/resize/{width:[0-9]+}", m.resize)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

// StartServer starts the monitor as a web server and returns its URL.
func (m *Monitor) StartServer() (string, error) {
	listener, err := net.Listen("tcp", m.listenAddr())
	if err != nil {
		return "", fmt.Errorf("monitor: %w", err)
	}

	m.lock.Lock()
	m.listener = listener
	m.server = &http.Server{
		Handler:           m.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	server := m.server
	m.lock.Unlock()

	url := fmt.Sprintf("http://localhost:%d", listener.Addr().(*net.TCPAddr).Port)
	m.logger.Info("monitoring carousels", zap.String("url", url))

	go func() {
		err := server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.logger.Error("monitor server stopped", zap.Error(err))
		}
	}()

	return url, nil
}

// Shutdown stops the server started by StartServer.
func (m *Monitor) Shutdown(ctx context.Context) error {
	m.lock.Lock()
	server := m.server
	m.server = nil
	m.lock.Unlock()

	if server == nil {
		return nil
	}

	return server.Shutdown(ctx)
}

func (m *Monitor) pauseEngine(w http.ResponseWriter, _ *http.Request) {
	e := m.engineOr503(w)
	if e == nil {
		return
	}

	e.Pause()
	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) continueEngine(w http.ResponseWriter, _ *http.Request) {
	e := m.engineOr503(w)
	if e == nil {
		return
	}

	e.Continue()
	w.WriteHeader(http.StatusOK)
}

type nowRsp struct {
	Now timing.VTimeInMs `json:"now"`
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	e := m.engineOr503(w)
	if e == nil {
		return
	}

	m.writeJSON(w, nowRsp{Now: e.CurrentTime()})
}

func (m *Monitor) listCarousels(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	names := make([]string, 0, len(m.carousels))
	for name := range m.carousels {
		names = append(names, name)
	}
	m.lock.Unlock()

	sort.Strings(names)

	m.writeJSON(w, names)
}

func (m *Monitor) carouselDetails(w http.ResponseWriter, r *http.Request) {
	c := m.findCarouselOr404(w, mux.Vars(r)["name"])
	if c == nil {
		return
	}

	status := c.Status()

	buf := bytes.NewBuffer(nil)
	serializer := goseth.NewSerializer()
	serializer.SetRoot(&status)
	serializer.SetMaxDepth(1)

	if err := serializer.Serialize(buf); err != nil {
		m.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	m.write(w, buf.Bytes())
}

func (m *Monitor) carouselStatus(w http.ResponseWriter, r *http.Request) {
	c := m.findCarouselOr404(w, mux.Vars(r)["name"])
	if c == nil {
		return
	}

	m.writeJSON(w, c.Status())
}

type navigationRsp struct {
	Accepted bool            `json:"accepted"`
	Status   rotation.Status `json:"status"`
}

func (m *Monitor) navigate(
	action func(Carousel) bool,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := m.findCarouselOr404(w, mux.Vars(r)["name"])
		if c == nil {
			return
		}

		accepted := action(c)
		m.writeJSON(w, navigationRsp{Accepted: accepted, Status: c.Status()})
	}
}

func (m *Monitor) goTo(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(mux.Vars(r)["page"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	m.navigate(func(c Carousel) bool { return c.GoTo(page) })(w, r)
}

func (m *Monitor) resize(w http.ResponseWriter, r *http.Request) {
	width, err := strconv.Atoi(mux.Vars(r)["width"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	m.lock.Lock()
	v := m.viewport
	carousels := make([]Carousel, 0, len(m.carousels))
	for _, c := range m.carousels {
		carousels = append(carousels, c)
	}
	m.lock.Unlock()

	if v != nil {
		v.Resize(width)
	} else {
		for _, c := range carousels {
			c.Resize(width)
		}
	}

	w.WriteHeader(http.StatusOK)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		m.fail(w, err)
		return
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		m.fail(w, err)
		return
	}

	memoryInfo, err := proc.MemoryInfo()
	if err != nil {
		m.fail(w, err)
		return
	}

	m.writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memoryInfo.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	if err := pprof.StartCPUProfile(buf); err != nil {
		m.fail(w, err)
		return
	}

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	if err != nil {
		m.fail(w, err)
		return
	}

	m.writeJSON(w, prof)
}

func (m *Monitor) engineOr503(w http.ResponseWriter) Engine {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.engine == nil {
		http.Error(w, "no engine registered", http.StatusServiceUnavailable)
	}

	return m.engine
}

func (m *Monitor) findCarouselOr404(w http.ResponseWriter, name string) Carousel {
	m.lock.Lock()
	c, ok := m.carousels[name]
	m.lock.Unlock()

	if !ok {
		http.Error(w, "carousel not found", http.StatusNotFound)
		return nil
	}

	return c
}

func (m *Monitor) writeJSON(w http.ResponseWriter, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		m.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	m.write(w, b)
}

func (m *Monitor) write(w http.ResponseWriter, b []byte) {
	if _, err := w.Write(b); err != nil {
		m.logger.Warn("writing response", zap.Error(err))
	}
}

func (m *Monitor) fail(w http.ResponseWriter, err error) {
	m.logger.Error("monitor request failed", zap.Error(err))
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
