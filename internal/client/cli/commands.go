package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/geojournal/internal/client/services"
	"github.com/dmitrijs2005/geojournal/internal/models"
)

// now is a test seam for the entry timestamp.
var now = time.Now

func (a *App) List(ctx context.Context) error {
	res := a.gateway.List(ctx)
	a.printEntries(res.Entries)
	fmt.Fprintf(a.out, "%d entries (%s)\n", len(res.Entries), res.Source)
	return nil
}

func (a *App) printEntries(entries []models.JournalEntry) {
	if len(entries) == 0 {
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tCATEGORY\tLOCATION\tNOTE")
	for _, e := range entries {
		note, _, _ := strings.Cut(e.Note, "\n")
		if r := []rune(note); len(r) > 40 {
			note = string(r[:37]) + "..."
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.5f,%.5f\t%s\n", e.ID, e.DateDisplay, e.Category, e.Latitude, e.Longitude, note)
	}
	_ = tw.Flush()
}

func (a *App) Add(ctx context.Context) error {
	lat, err := GetFloat(a.in, "Latitude", a.out, -90, 90)
	if err != nil {
		return err
	}
	lon, err := GetFloat(a.in, "Longitude", a.out, -180, 180)
	if err != nil {
		return err
	}

	var category models.Category
	for {
		s, err := GetSimpleText(a.in, fmt.Sprintf("Category %v", models.Categories()), a.out)
		if err != nil {
			return err
		}
		if s == "" {
			return ErrCancelled
		}
		if category, err = models.ParseCategory(s); err == nil {
			break
		}
		fmt.Fprintln(a.out, "Unknown category")
	}

	note, err := GetMultiline(a.in, "Note", a.out)
	if err != nil {
		return err
	}

	photo, err := GetSimpleText(a.in, "Photo URL (optional)", a.out)
	if err != nil {
		return err
	}

	ts := now()
	in := models.NewEntry{
		Latitude:    lat,
		Longitude:   lon,
		Timestamp:   ts,
		DateDisplay: models.FormatDateDisplay(ts),
		Note:        note,
		Category:    category,
	}
	if photo != "" {
		in.PhotoURL = &photo
	}

	res := a.gateway.Create(ctx, in)
	fmt.Fprintf(a.out, "Saved %s (%s)\n", res.Entry.ID, res.Source)
	return nil
}

func (a *App) Delete(ctx context.Context, id string) error {
	src := a.gateway.Delete(ctx, id)
	fmt.Fprintf(a.out, "Deleted %s (%s)\n", id, src)
	return nil
}

// Import replaces the device copy with a snapshot file. The remote store is
// not touched.
func (a *App) Import(ctx context.Context, path string) error {
	entries, err := readSnapshot(path)
	if err != nil {
		return err
	}
	if err := a.gateway.Import(ctx, entries); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Imported %d entries into the device store\n", len(entries))
	return nil
}

// Export writes what List currently returns to a snapshot file.
func (a *App) Export(ctx context.Context, path string) error {
	res := a.gateway.List(ctx)
	if err := writeSnapshot(path, res.Entries); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Exported %d entries (%s) to %s\n", len(res.Entries), res.Source, path)
	return nil
}

// Pending lists entries that were created offline and never reached the store.
func (a *App) Pending(ctx context.Context) error {
	entries, err := a.gateway.Unsynced(ctx)
	if err != nil {
		return err
	}
	a.printEntries(entries)
	fmt.Fprintf(a.out, "%d entries only on this device\n", len(entries))
	return nil
}

// Status probes the store and reports which store served the operations of
// this session.
func (a *App) Status(ctx context.Context) error {
	online := a.watcher.Probe(ctx)
	fmt.Fprintf(a.out, "Store %s: %s\n", a.config.ServerURL, modeName(online))

	if a.stats == nil {
		return nil
	}
	st, err := services.GatherStats(a.stats)
	if err != nil {
		return err
	}
	if len(st.Served) == 0 {
		fmt.Fprintln(a.out, "No operations yet")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "OPERATION\tSOURCE\tCOUNT")
	for _, c := range st.Served {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", c.Op, c.Source, c.Count)
	}
	_ = tw.Flush()

	for _, c := range st.MirrorFailures {
		fmt.Fprintf(a.out, "Device store failed during %s: %d times\n", c.Op, c.Count)
	}
	return nil
}
