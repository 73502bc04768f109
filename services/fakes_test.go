package services

import (
	"context"
	"sort"
	"time"

	"github.com/Dosada05/cricket-fixtures/models"
	"github.com/Dosada05/cricket-fixtures/repositories"
)

// In-memory repositories for service tests. Every repository method accepts a
// nil SQLExecutor in production code, so the fake transaction runner simply
// invokes the function with nil.

func intPtr(v int) *int { return &v }

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

type fakeTxRunner struct {
	err   error
	calls int
}

func (f *fakeTxRunner) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type fakeTournamentRepo struct {
	tournaments map[int]*models.Tournament
	teams       map[int][]*models.Team

	pointerVersionID int
	pointerUpdatedAt time.Time
}

func newFakeTournamentRepo() *fakeTournamentRepo {
	return &fakeTournamentRepo{
		tournaments: make(map[int]*models.Tournament),
		teams:       make(map[int][]*models.Team),
	}
}

func (f *fakeTournamentRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	t, ok := f.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return t, nil
}

func (f *fakeTournamentRepo) UpdateFixturePointers(ctx context.Context, exec repositories.SQLExecutor, tournamentID, versionID int, publishedAt time.Time) error {
	t, ok := f.tournaments[tournamentID]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.ActiveFixtureVersionID = &versionID
	t.FixturePublishedAt = &publishedAt
	f.pointerVersionID = versionID
	f.pointerUpdatedAt = publishedAt
	return nil
}

func (f *fakeTournamentRepo) ListTeams(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]*models.Team, error) {
	return f.teams[tournamentID], nil
}

type fakeStageRepo struct {
	stages       map[int]*models.Stage
	groups       map[int]*models.StageGroup
	entries      map[int][]*models.StageTeamEntry
	advancements map[int][]*models.StageAdvancement
}

func newFakeStageRepo() *fakeStageRepo {
	return &fakeStageRepo{
		stages:       make(map[int]*models.Stage),
		groups:       make(map[int]*models.StageGroup),
		entries:      make(map[int][]*models.StageTeamEntry),
		advancements: make(map[int][]*models.StageAdvancement),
	}
}

func (f *fakeStageRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Stage, error) {
	s, ok := f.stages[id]
	if !ok {
		return nil, repositories.ErrStageNotFound
	}
	return s, nil
}

func (f *fakeStageRepo) GetGroup(ctx context.Context, exec repositories.SQLExecutor, groupID int) (*models.StageGroup, error) {
	g, ok := f.groups[groupID]
	if !ok {
		return nil, repositories.ErrStageGroupNotFound
	}
	return g, nil
}

func (f *fakeStageRepo) ListEntries(ctx context.Context, exec repositories.SQLExecutor, stageID int, stageGroupID *int) ([]*models.StageTeamEntry, error) {
	var out []*models.StageTeamEntry
	for _, e := range f.entries[stageID] {
		if stageGroupID != nil {
			if e.StageGroupID == nil || *e.StageGroupID != *stageGroupID {
				continue
			}
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Seed < out[j].Seed })
	return out, nil
}

func (f *fakeStageRepo) ListAdvancementsInto(ctx context.Context, exec repositories.SQLExecutor, toStageID int) ([]*models.StageAdvancement, error) {
	out := append([]*models.StageAdvancement(nil), f.advancements[toStageID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ToSlot < out[j].ToSlot })
	return out, nil
}

func (f *fakeStageRepo) UpdateMetadata(ctx context.Context, exec repositories.SQLExecutor, stageID int, metadata string) error {
	s, ok := f.stages[stageID]
	if !ok {
		return repositories.ErrStageNotFound
	}
	s.Metadata = &metadata
	return nil
}

type fakeMatchRepo struct {
	matches map[int]*models.Match
	nextID  int
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{matches: make(map[int]*models.Match), nextID: 1}
}

func (f *fakeMatchRepo) add(m *models.Match) *models.Match {
	m.ID = f.nextID
	f.nextID++
	f.matches[m.ID] = m
	return m
}

func (f *fakeMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	match.CreatedAt = time.Now()
	clone := *match
	f.add(&clone)
	match.ID = clone.ID
	return nil
}

func (f *fakeMatchRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Match, error) {
	m, ok := f.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	clone := *m
	return &clone, nil
}

func (f *fakeMatchRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int, filter repositories.MatchFilter) ([]*models.Match, error) {
	var out []*models.Match
	for _, m := range f.matches {
		if m.TournamentID != tournamentID {
			continue
		}
		if filter.StageID != nil && (m.StageID == nil || *m.StageID != *filter.StageID) {
			continue
		}
		if filter.StageGroupID != nil && (m.StageGroupID == nil || *m.StageGroupID != *filter.StageGroupID) {
			continue
		}
		if filter.Status != nil && m.FixtureStatus != *filter.Status {
			continue
		}
		clone := *m
		out = append(out, &clone)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeMatchRepo) ListByIDs(ctx context.Context, exec repositories.SQLExecutor, ids []int) ([]*models.Match, error) {
	var out []*models.Match
	for _, id := range ids {
		if m, ok := f.matches[id]; ok {
			clone := *m
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeMatchRepo) UpdateDraftFields(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	existing, ok := f.matches[match.ID]
	if !ok || existing.FixtureStatus != models.FixtureStatusDraft {
		return repositories.ErrMatchNotFound
	}
	clone := *match
	clone.FixtureStatus = models.FixtureStatusDraft
	f.matches[match.ID] = &clone
	return nil
}

func (f *fakeMatchRepo) DeleteByIDs(ctx context.Context, exec repositories.SQLExecutor, ids []int) error {
	for _, id := range ids {
		delete(f.matches, id)
	}
	return nil
}

func (f *fakeMatchRepo) MarkPublished(ctx context.Context, exec repositories.SQLExecutor, ids []int, versionID int) error {
	for _, id := range ids {
		m, ok := f.matches[id]
		if !ok {
			return repositories.ErrMatchNotFound
		}
		m.FixtureStatus = models.FixtureStatusPublished
		m.FixtureVersionID = &versionID
	}
	return nil
}

func (f *fakeMatchRepo) MaxRoundNumber(ctx context.Context, exec repositories.SQLExecutor, stageID int) (int, error) {
	max := 0
	for _, m := range f.matches {
		if m.StageID == nil || *m.StageID != stageID || m.RoundNumber == nil {
			continue
		}
		if *m.RoundNumber > max {
			max = *m.RoundNumber
		}
	}
	return max, nil
}

type fakeSourceRepo struct {
	rows   map[int]*models.MatchParticipantSource
	nextID int
}

func newFakeSourceRepo() *fakeSourceRepo {
	return &fakeSourceRepo{rows: make(map[int]*models.MatchParticipantSource), nextID: 1}
}

func (f *fakeSourceRepo) Create(ctx context.Context, exec repositories.SQLExecutor, source *models.MatchParticipantSource) error {
	source.ID = f.nextID
	f.nextID++
	clone := *source
	f.rows[source.ID] = &clone
	return nil
}

func (f *fakeSourceRepo) ListByMatchIDs(ctx context.Context, exec repositories.SQLExecutor, matchIDs []int) ([]*models.MatchParticipantSource, error) {
	want := make(map[int]bool, len(matchIDs))
	for _, id := range matchIDs {
		want[id] = true
	}
	var out []*models.MatchParticipantSource
	for _, row := range f.rows {
		if want[row.MatchID] {
			clone := *row
			out = append(out, &clone)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeSourceRepo) DeleteByMatchIDs(ctx context.Context, exec repositories.SQLExecutor, matchIDs []int) error {
	want := make(map[int]bool, len(matchIDs))
	for _, id := range matchIDs {
		want[id] = true
	}
	for id, row := range f.rows {
		if want[row.MatchID] {
			delete(f.rows, id)
		}
	}
	return nil
}

func (f *fakeSourceRepo) forMatch(matchID int) []*models.MatchParticipantSource {
	out, _ := f.ListByMatchIDs(context.Background(), nil, []int{matchID})
	return out
}

type fakeVersionRepo struct {
	versions map[int]*models.FixtureVersion
	nextID   int
}

func newFakeVersionRepo() *fakeVersionRepo {
	return &fakeVersionRepo{versions: make(map[int]*models.FixtureVersion), nextID: 1}
}

func (f *fakeVersionRepo) Create(ctx context.Context, exec repositories.SQLExecutor, version *models.FixtureVersion) error {
	version.ID = f.nextID
	version.CreatedAt = time.Now()
	f.nextID++
	clone := *version
	f.versions[version.ID] = &clone
	return nil
}

func (f *fakeVersionRepo) NextVersionNumber(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) (int, error) {
	max := 0
	for _, v := range f.versions {
		if v.TournamentID == tournamentID && v.VersionNumber > max {
			max = v.VersionNumber
		}
	}
	return max + 1, nil
}

func (f *fakeVersionRepo) GetPublished(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) (*models.FixtureVersion, error) {
	for _, v := range f.versions {
		if v.TournamentID == tournamentID && v.Status == models.VersionStatusPublished {
			clone := *v
			return &clone, nil
		}
	}
	return nil, repositories.ErrFixtureVersionNotFound
}

func (f *fakeVersionRepo) ArchivePublished(ctx context.Context, exec repositories.SQLExecutor, tournamentID int, archivedAt time.Time) error {
	for _, v := range f.versions {
		if v.TournamentID == tournamentID && v.Status == models.VersionStatusPublished {
			v.Status = models.VersionStatusArchived
			v.ArchivedAt = &archivedAt
		}
	}
	return nil
}

func (f *fakeVersionRepo) LatestDraftForStage(ctx context.Context, exec repositories.SQLExecutor, tournamentID, stageID int) (*models.FixtureVersion, error) {
	var latest *models.FixtureVersion
	for _, v := range f.versions {
		if v.TournamentID != tournamentID || v.Status != models.VersionStatusDraft {
			continue
		}
		if v.StageID == nil || *v.StageID != stageID {
			continue
		}
		if latest == nil || v.VersionNumber > latest.VersionNumber {
			latest = v
		}
	}
	if latest == nil {
		return nil, repositories.ErrFixtureVersionNotFound
	}
	clone := *latest
	return &clone, nil
}

type fakeRoundRepo struct {
	rounds []*models.FixtureRound
	nextID int
}

func newFakeRoundRepo() *fakeRoundRepo {
	return &fakeRoundRepo{nextID: 1}
}

func (f *fakeRoundRepo) Create(ctx context.Context, exec repositories.SQLExecutor, round *models.FixtureRound) error {
	round.ID = f.nextID
	f.nextID++
	clone := *round
	f.rounds = append(f.rounds, &clone)
	return nil
}

func (f *fakeRoundRepo) ListByVersion(ctx context.Context, exec repositories.SQLExecutor, versionID int) ([]*models.FixtureRound, error) {
	var out []*models.FixtureRound
	for _, r := range f.rounds {
		if r.FixtureVersionID == versionID {
			clone := *r
			out = append(out, &clone)
		}
	}
	return out, nil
}

type fakeVersionMatchRepo struct {
	rows []models.FixtureVersionMatch
}

func (f *fakeVersionMatchRepo) BatchCreate(ctx context.Context, exec repositories.SQLExecutor, versionID int, matchIDs []int, snapshots []string) error {
	for i, matchID := range matchIDs {
		f.rows = append(f.rows, models.FixtureVersionMatch{
			FixtureVersionID: versionID,
			MatchID:          matchID,
			Sequence:         i,
			Snapshot:         snapshots[i],
		})
	}
	return nil
}

type fakeChangeLogRepo struct {
	entries []*models.FixtureChangeLog
	nextID  int
}

func (f *fakeChangeLogRepo) Append(ctx context.Context, exec repositories.SQLExecutor, entry *models.FixtureChangeLog) error {
	f.nextID++
	entry.ID = f.nextID
	entry.CreatedAt = time.Now()
	clone := *entry
	f.entries = append(f.entries, &clone)
	return nil
}

func (f *fakeChangeLogRepo) DetachMatches(ctx context.Context, exec repositories.SQLExecutor, matchIDs []int) error {
	want := make(map[int]bool, len(matchIDs))
	for _, id := range matchIDs {
		want[id] = true
	}
	for _, e := range f.entries {
		if e.MatchID != nil && want[*e.MatchID] {
			e.MatchID = nil
		}
	}
	return nil
}

func (f *fakeChangeLogRepo) lastAction() models.ChangeLogAction {
	if len(f.entries) == 0 {
		return ""
	}
	return f.entries[len(f.entries)-1].Action
}

type fakeVenueRepo struct {
	venues       []*models.Venue
	byTournament map[int][]int
}

func newFakeVenueRepo(venues ...*models.Venue) *fakeVenueRepo {
	return &fakeVenueRepo{venues: venues, byTournament: make(map[int][]int)}
}

func (f *fakeVenueRepo) ListByIDs(ctx context.Context, exec repositories.SQLExecutor, ids []int) ([]*models.Venue, error) {
	var out []*models.Venue
	for _, id := range ids {
		for _, v := range f.venues {
			if v.ID == id {
				out = append(out, v)
			}
		}
	}
	return out, nil
}

func (f *fakeVenueRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]*models.Venue, error) {
	return f.ListByIDs(ctx, exec, f.byTournament[tournamentID])
}

func (f *fakeVenueRepo) ListAll(ctx context.Context, exec repositories.SQLExecutor) ([]*models.Venue, error) {
	return f.venues, nil
}

type fakeInningsRepo struct {
	rows []*models.Innings
}

func (f *fakeInningsRepo) ListByMatchIDs(ctx context.Context, exec repositories.SQLExecutor, matchIDs []int) ([]*models.Innings, error) {
	want := make(map[int]bool, len(matchIDs))
	for _, id := range matchIDs {
		want[id] = true
	}
	var out []*models.Innings
	for _, in := range f.rows {
		if want[in.MatchID] {
			out = append(out, in)
		}
	}
	return out, nil
}
