package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/santralytics/santralytics/core/model"
	"github.com/santralytics/santralytics/infra/logger"
)

// Platform is a local stand-in for the EPIAS transparency platform. It
// serves the CAS ticket endpoint and the four series endpoints with
// deterministic synthetic data so the CLI runs without credentials.
type Platform struct {
	addr   string
	log    logger.Logger
	srv    *http.Server
	plants []simPlant
}

// simPlant matches the plant list schema the directory loader reads.
type simPlant struct {
	Name           string  `json:"powerPlantName"`
	OrganizationID int64   `json:"organizationId"`
	PlantID        int64   `json:"powerPlantId"`
	UEVCBID        int64   `json:"uevcbId"`
	CapacityMW     float64 `json:"capacity_mw"`
}

// NewPlatform creates a Platform with count synthetic plants,
// alternating wind and hydro so any two same-type plants compare.
func NewPlatform(addr string, count int) *Platform {
	plants := make([]simPlant, 0, count)
	for i := 0; i < count; i++ {
		kind := "RES"
		if i%2 == 1 {
			kind = "HES"
		}
		plants = append(plants, simPlant{
			Name:           fmt.Sprintf("Sim %s %d", kind, i/2+1),
			OrganizationID: 1000 + int64(i),
			PlantID:        3000 + int64(i),
			UEVCBID:        2000 + int64(i),
			CapacityMW:     float64(40 + 20*i),
		})
	}
	return &Platform{
		addr:   addr,
		log:    logger.New("simulator"),
		plants: plants,
	}
}

// Plants returns the synthetic plant directory.
func (p *Platform) Plants() []simPlant { return p.plants }

func (p *Platform) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/cas/v1/tickets", p.handleTicket)
	mux.HandleFunc("/electricity-service/v1/markets/dam/data/mcp", p.series("price", p.ptf))
	mux.HandleFunc("/electricity-service/v1/markets/bpm/data/system-marginal-price", p.series("systemMarginalPrice", p.smf))
	mux.HandleFunc("/electricity-service/v1/generation/data/dpp-first-version", p.series("toplam", p.forecast))
	mux.HandleFunc("/electricity-service/v1/generation/data/realtime-generation", p.series("total", p.realized))
	mux.HandleFunc("/pp_list.json", p.handlePlants)
	return mux
}

func (p *Platform) handleTicket(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if r.PostFormValue("username") == "" || r.PostFormValue("password") == "" {
		http.Error(w, "missing credentials", http.StatusBadRequest)
		return
	}
	fmt.Fprintf(w, "TGT-sim-%d", time.Now().Unix())
}

func (p *Platform) handlePlants(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(p.plants); err != nil {
		p.log.Errorf("write plant list: %v", err)
	}
}

type seriesReq struct {
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate"`
	OrganizationID int64  `json:"organizationId"`
	PowerPlantID   int64  `json:"powerPlantId"`
}

func (p *Platform) series(field string, value func(req seriesReq, h time.Time) float64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if !strings.HasPrefix(r.Header.Get("TGT"), "TGT-sim") {
			http.Error(w, "invalid ticket", http.StatusUnauthorized)
			return
		}
		var req seriesReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		start, err := time.Parse(time.RFC3339, req.StartDate)
		if err != nil {
			http.Error(w, "bad startDate", http.StatusBadRequest)
			return
		}
		end, err := time.Parse(time.RFC3339, req.EndDate)
		if err != nil || end.Before(start) {
			http.Error(w, "bad endDate", http.StatusBadRequest)
			return
		}

		items := make([]map[string]any, 0, 24)
		last := end.In(model.MarketZone).Add(23 * time.Hour)
		for h := start.In(model.MarketZone); !h.After(last); h = h.Add(time.Hour) {
			items = append(items, map[string]any{
				"date": h.Format("2006-01-02T15:04:05-07:00"),
				"hour": h.Format("15:04"),
				field:  round2(value(req, h)),
			})
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]any{"items": items}); err != nil {
			p.log.Errorf("write %s response: %v", field, err)
		}
	}
}

// The curves below are plain sinusoids offset per plant. Prices cross
// each other during the day and production drifts off its forecast, so
// both settlement branches show up in every report.

func (p *Platform) ptf(_ seriesReq, h time.Time) float64 {
	return 1800 +
		400*math.Sin(2*math.Pi*float64(h.Hour()-9)/24) +
		120*math.Sin(2*math.Pi*float64(h.YearDay())/365)
}

func (p *Platform) smf(req seriesReq, h time.Time) float64 {
	return p.ptf(req, h) + 180*math.Sin(2*math.Pi*float64(h.Hour())/6)
}

func (p *Platform) forecast(req seriesReq, h time.Time) float64 {
	pl := p.plantByOrg(req.OrganizationID)
	if pl == nil {
		return 0
	}
	return plannedOutput(pl, h)
}

func (p *Platform) realized(req seriesReq, h time.Time) float64 {
	pl := p.plantByID(req.PowerPlantID)
	if pl == nil {
		return 0
	}
	return plannedOutput(pl, h) * (1 + 0.15*math.Sin(2*math.Pi*float64(h.Hour())/5))
}

func plannedOutput(pl *simPlant, h time.Time) float64 {
	phase := float64(pl.OrganizationID % 7)
	return pl.CapacityMW * (0.35 + 0.25*math.Sin(2*math.Pi*(float64(h.Hour())+phase)/24))
}

func (p *Platform) plantByOrg(id int64) *simPlant {
	for i := range p.plants {
		if p.plants[i].OrganizationID == id {
			return &p.plants[i]
		}
	}
	return nil
}

func (p *Platform) plantByID(id int64) *simPlant {
	for i := range p.plants {
		if p.plants[i].PlantID == id {
			return &p.plants[i]
		}
	}
	return nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// Addr returns the listening address once Start has been called.
func (p *Platform) Addr() string { return p.addr }

// Start runs the HTTP server until the context is canceled.
func (p *Platform) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", p.addr)
	if err != nil {
		return err
	}
	p.addr = ln.Addr().String()
	p.srv = &http.Server{Handler: p.routes()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := p.srv.Shutdown(shutdownCtx); err != nil {
			p.log.Errorf("shutdown server: %v", err)
		}
		cancel()
	}()
	p.log.Infof("transparency platform simulator listening on %s", p.addr)
	err = p.srv.Serve(ln)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
