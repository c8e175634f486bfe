package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/Shashank2985/Cannon/internal/core/domain"
)

func testAnalysis(overall float64) *domain.ScanAnalysis {
	return &domain.ScanAnalysis{
		Metrics: domain.FaceMetrics{
			OverallScore:    overall,
			HarmonyScore:    6.0,
			ConfidenceScore: 0.9,
			Jawline: domain.JawlineMetrics{
				DefinitionScore: 6, SymmetryScore: 6, MasseterDevelopment: 6,
				ChinProjection: 6, ChinShape: "average",
			},
			Cheekbones: domain.CheekbonesMetrics{
				ProminenceScore: 6, WidthScore: 6, HollownessBelow: 6,
				SymmetryScore: 6, HeightPosition: "medium",
			},
			EyeArea: domain.EyeAreaMetrics{
				CanthalTilt: "neutral", EyeShape: "almond",
				UnderEyeArea: 6, BrowBoneProminence: 6, SymmetryScore: 6,
			},
			Skin: domain.SkinMetrics{
				OverallQuality: 6, TextureScore: 6, ClarityScore: 6,
				ToneEvenness: 6, SkinType: "normal", AcnePresence: "none",
			},
			Proportions: domain.ProportionMetrics{
				FaceShape: "oval", FacialThirdsBalance: 6, HorizontalFifths: 6,
				OverallSymmetry: 6, GoldenRatioAdherence: 6,
			},
			Profile: domain.ProfileMetrics{
				NoseProjection: 6, ChinProjection: 6, SubmentalArea: 6, ProfileHarmony: 6,
			},
			ImageQualityFront: 8, ImageQualityLeft: 8, ImageQualityRight: 8,
		},
		EstimatedPotential: 8,
	}
}

type statusCall struct {
	status domain.ScanStatus
	errMsg string
}

type scanRepoFake struct {
	scan       *domain.Scan
	history    []domain.ScanSummary
	scores     []domain.ScorePoint
	created    []*domain.Scan
	claims     []string
	saved      *domain.ScanAnalysis
	statusLog  []statusCall
	createErr  error
	getErr     error
	claimErr   error
	saveErr    error
	markErr    error
	scoresErr  error
	historyErr error
}

func (f *scanRepoFake) Create(_ context.Context, scan *domain.Scan) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, scan)
	return nil
}

func (f *scanRepoFake) GetForUser(_ context.Context, scanID, userID string) (*domain.Scan, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.scan == nil || f.scan.ID != scanID || f.scan.UserID != userID {
		return nil, domain.WrapError(domain.ErrScanNotFound, "get scan", fmt.Errorf("id=%s", scanID))
	}
	copyScan := *f.scan
	return &copyScan, nil
}

func (f *scanRepoFake) GetLatest(_ context.Context, userID string) (*domain.Scan, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.scan == nil || f.scan.UserID != userID {
		return nil, domain.WrapError(domain.ErrScanNotFound, "get latest scan", fmt.Errorf("user=%s", userID))
	}
	copyScan := *f.scan
	return &copyScan, nil
}

func (f *scanRepoFake) ListHistory(context.Context, string, int) ([]domain.ScanSummary, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.history, nil
}

func (f *scanRepoFake) ClaimForProcessing(_ context.Context, scanID, _ string) error {
	if f.claimErr != nil {
		return f.claimErr
	}
	f.claims = append(f.claims, scanID)
	if f.scan != nil {
		f.scan.Status = domain.StatusProcessing
	}
	return nil
}

func (f *scanRepoFake) SaveAnalysis(_ context.Context, _ string, analysis *domain.ScanAnalysis) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = analysis
	f.statusLog = append(f.statusLog, statusCall{status: domain.StatusCompleted})
	return nil
}

func (f *scanRepoFake) MarkFailed(ctx context.Context, _ string, errMessage string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.markErr != nil {
		return f.markErr
	}
	f.statusLog = append(f.statusLog, statusCall{status: domain.StatusFailed, errMsg: errMessage})
	return nil
}

func (f *scanRepoFake) ListCompletedScores(context.Context, string) ([]domain.ScorePoint, error) {
	if f.scoresErr != nil {
		return nil, f.scoresErr
	}
	return f.scores, nil
}

type storageFake struct {
	blobs   map[string][]byte
	putErrs map[string]error
	getErrs map[string]error
	removed []string
}

func newStorageFake() *storageFake {
	return &storageFake{
		blobs:   make(map[string][]byte),
		putErrs: make(map[string]error),
		getErrs: make(map[string]error),
	}
}

func (f *storageFake) Put(_ context.Context, data []byte, userID, kind string) (string, error) {
	if err := f.putErrs[kind]; err != nil {
		return "", err
	}
	key := fmt.Sprintf("scans/%s/%s", userID, kind)
	f.blobs[key] = data
	return key, nil
}

func (f *storageFake) Get(_ context.Context, key string) ([]byte, error) {
	if err := f.getErrs[key]; err != nil {
		return nil, err
	}
	data, ok := f.blobs[key]
	if !ok {
		return nil, fmt.Errorf("blob missing: %s", key)
	}
	return data, nil
}

func (f *storageFake) Remove(_ context.Context, key string) error {
	f.removed = append(f.removed, key)
	delete(f.blobs, key)
	return nil
}

type engineFake struct {
	analysis *domain.ScanAnalysis
	err      error
	calls    int
}

func (f *engineFake) Analyze(context.Context, []byte, []byte, []byte) (*domain.ScanAnalysis, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.analysis, nil
}

type queueFake struct {
	events []domain.ScanCompletedEvent
	err    error
}

func (f *queueFake) PublishScanCompleted(_ context.Context, evt domain.ScanCompletedEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, evt)
	return nil
}

func (f *queueFake) SubscribeScanCompleted(context.Context, func(context.Context, domain.ScanCompletedEvent) error) error {
	return nil
}

type boardRepoFake struct {
	entries   map[string]*domain.LeaderboardEntry
	rankCalls [][]domain.RankAssignment
	getErr    error
	upsertErr error
	listErr   error
	ranksErr  error
}

func newBoardRepoFake() *boardRepoFake {
	return &boardRepoFake{entries: make(map[string]*domain.LeaderboardEntry)}
}

func (f *boardRepoFake) GetByUserID(_ context.Context, userID string) (*domain.LeaderboardEntry, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	entry, ok := f.entries[userID]
	if !ok {
		return nil, nil
	}
	copyEntry := *entry
	return &copyEntry, nil
}

func (f *boardRepoFake) Upsert(_ context.Context, entry *domain.LeaderboardEntry) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	copyEntry := *entry
	f.entries[entry.UserID] = &copyEntry
	return nil
}

func (f *boardRepoFake) ListForRerank(context.Context) ([]domain.LeaderboardEntry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.LeaderboardEntry, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}

func (f *boardRepoFake) UpdateRanks(_ context.Context, assignments []domain.RankAssignment) error {
	if f.ranksErr != nil {
		return f.ranksErr
	}
	f.rankCalls = append(f.rankCalls, assignments)
	for _, a := range assignments {
		if entry, ok := f.entries[a.UserID]; ok {
			entry.Rank = a.Rank
		}
	}
	return nil
}

func (f *boardRepoFake) ListRanked(_ context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	entries, err := f.ListForRerank(context.Background())
	if err != nil {
		return nil, err
	}
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, nil
}

func (f *boardRepoFake) Count(context.Context) (int, error) {
	return len(f.entries), nil
}
