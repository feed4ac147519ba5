package electionledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	electionledger "psephos/contexts/governance/election-ledger"
	domainerrors "psephos/contexts/governance/election-ledger/domain/errors"
	httptransport "psephos/contexts/governance/election-ledger/transport/http"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advanceTo(t time.Time) { c.now = t }

type fakeBalances struct {
	balances map[string]int64
}

func (b *fakeBalances) BalanceOf(_ context.Context, address string) (int64, error) {
	return b.balances[address], nil
}

var scheduleBase = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func defaultSchedule() httptransport.CreateElectionRequest {
	return httptransport.CreateElectionRequest{
		Name:            "treasury council",
		Description:     "quarterly treasury council seat",
		NominationStart: scheduleBase.Add(1 * time.Hour),
		NominationEnd:   scheduleBase.Add(2 * time.Hour),
		VotingStart:     scheduleBase.Add(3 * time.Hour),
		VotingEnd:       scheduleBase.Add(4 * time.Hour),
	}
}

func newLedger(balances map[string]int64) (electionledger.Module, *fakeClock) {
	clock := &fakeClock{now: scheduleBase}
	module := electionledger.NewInMemoryModule(&fakeBalances{balances: balances}, clock, nil)
	return module, clock
}

func TestCreateElectionAssignsSequentialIDs(t *testing.T) {
	module, _ := newLedger(nil)
	ctx := context.Background()

	first, err := module.Handler.CreateElectionHandler(ctx, "0xalice", defaultSchedule())
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	second, err := module.Handler.CreateElectionHandler(ctx, "0xbob", defaultSchedule())
	if err != nil {
		t.Fatalf("second create failed: %v", err)
	}

	if first.ElectionID != 1 || second.ElectionID != 2 {
		t.Fatalf("expected ids 1 and 2, got %d and %d", first.ElectionID, second.ElectionID)
	}
	if first.Phase != "scheduled" {
		t.Fatalf("expected fresh election in scheduled phase, got %s", first.Phase)
	}
	if !first.Active {
		t.Fatal("expected fresh election to be active")
	}
}

func TestCreateElectionRejectsInvalidSchedule(t *testing.T) {
	module, _ := newLedger(nil)
	ctx := context.Background()

	bad := defaultSchedule()
	bad.VotingStart = bad.NominationEnd
	if _, err := module.Handler.CreateElectionHandler(ctx, "0xalice", bad); !errors.Is(err, domainerrors.ErrInvalidSchedule) {
		t.Fatalf("expected invalid schedule for equal bounds, got %v", err)
	}

	reversed := defaultSchedule()
	reversed.NominationStart = scheduleBase.Add(5 * time.Hour)
	reversed.NominationEnd = scheduleBase.Add(6 * time.Hour)
	if _, err := module.Handler.CreateElectionHandler(ctx, "0xalice", reversed); !errors.Is(err, domainerrors.ErrInvalidSchedule) {
		t.Fatalf("expected invalid schedule for reversed windows, got %v", err)
	}

	if _, err := module.Handler.CreateElectionHandler(ctx, "", defaultSchedule()); !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for missing caller, got %v", err)
	}
}

func TestNominationWindow(t *testing.T) {
	module, clock := newLedger(nil)
	ctx := context.Background()

	created, err := module.Handler.CreateElectionHandler(ctx, "0xalice", defaultSchedule())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Still scheduled.
	_, err = module.Handler.NominateHandler(ctx, created.ElectionID, "0xcand1", httptransport.NominateRequest{Name: "Ada"})
	if !errors.Is(err, domainerrors.ErrPhaseViolation) {
		t.Fatalf("expected phase violation before nominations open, got %v", err)
	}

	clock.advanceTo(created.NominationStart.Add(time.Minute))
	first, err := module.Handler.NominateHandler(ctx, created.ElectionID, "0xcand1", httptransport.NominateRequest{Name: "Ada"})
	if err != nil {
		t.Fatalf("nominate failed: %v", err)
	}
	if first.CandidateID != 1 {
		t.Fatalf("expected first candidate id 1, got %d", first.CandidateID)
	}

	second, err := module.Handler.NominateHandler(ctx, created.ElectionID, "0xcand2", httptransport.NominateRequest{Name: "Bin"})
	if err != nil {
		t.Fatalf("second nominate failed: %v", err)
	}
	if second.CandidateID != 2 {
		t.Fatalf("expected second candidate id 2, got %d", second.CandidateID)
	}

	_, err = module.Handler.NominateHandler(ctx, created.ElectionID, "0xcand1", httptransport.NominateRequest{Name: "Ada again"})
	if !errors.Is(err, domainerrors.ErrDuplicateCandidacy) {
		t.Fatalf("expected duplicate candidacy, got %v", err)
	}

	clock.advanceTo(created.NominationEnd)
	_, err = module.Handler.NominateHandler(ctx, created.ElectionID, "0xcand3", httptransport.NominateRequest{Name: "Cyn"})
	if !errors.Is(err, domainerrors.ErrPhaseViolation) {
		t.Fatalf("expected phase violation after nominations close, got %v", err)
	}

	list, err := module.Handler.ListCandidatesHandler(ctx, created.ElectionID)
	if err != nil {
		t.Fatalf("list candidates failed: %v", err)
	}
	if len(list.Items) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(list.Items))
	}
}

func TestVoterRegistrationWindow(t *testing.T) {
	module, clock := newLedger(nil)
	ctx := context.Background()

	created, err := module.Handler.CreateElectionHandler(ctx, "0xalice", defaultSchedule())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Registration is closed while nominations run.
	clock.advanceTo(created.NominationStart.Add(time.Minute))
	_, err = module.Handler.RegisterVoterHandler(ctx, created.ElectionID, "0xvoter")
	if !errors.Is(err, domainerrors.ErrPhaseViolation) {
		t.Fatalf("expected phase violation during nomination, got %v", err)
	}

	clock.advanceTo(created.NominationEnd.Add(time.Minute))
	first, err := module.Handler.RegisterVoterHandler(ctx, created.ElectionID, "0xvoter")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if !first.Registered || first.Replayed {
		t.Fatalf("expected fresh registration, got %+v", first)
	}

	replay, err := module.Handler.RegisterVoterHandler(ctx, created.ElectionID, "0xvoter")
	if err != nil {
		t.Fatalf("replayed register failed: %v", err)
	}
	if !replay.Replayed {
		t.Fatal("expected idempotent replay to be flagged")
	}

	// Registration stays open through the voting window.
	clock.advanceTo(created.VotingStart.Add(time.Minute))
	late, err := module.Handler.RegisterVoterHandler(ctx, created.ElectionID, "0xlate")
	if err != nil {
		t.Fatalf("late register failed: %v", err)
	}
	if !late.Registered {
		t.Fatal("expected late registration to succeed during voting")
	}

	clock.advanceTo(created.VotingEnd)
	_, err = module.Handler.RegisterVoterHandler(ctx, created.ElectionID, "0xtoolate")
	if !errors.Is(err, domainerrors.ErrPhaseViolation) {
		t.Fatalf("expected phase violation after voting ends, got %v", err)
	}
}

// seedVotingElection creates an election, nominates two candidates, registers
// the given voters, and advances the clock into the voting window.
func seedVotingElection(t *testing.T, module electionledger.Module, clock *fakeClock, voters ...string) httptransport.ElectionResponse {
	t.Helper()
	ctx := context.Background()

	created, err := module.Handler.CreateElectionHandler(ctx, "0xalice", defaultSchedule())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	clock.advanceTo(created.NominationStart.Add(time.Minute))
	if _, err := module.Handler.NominateHandler(ctx, created.ElectionID, "0xcand1", httptransport.NominateRequest{Name: "Ada"}); err != nil {
		t.Fatalf("nominate failed: %v", err)
	}
	if _, err := module.Handler.NominateHandler(ctx, created.ElectionID, "0xcand2", httptransport.NominateRequest{Name: "Bin"}); err != nil {
		t.Fatalf("nominate failed: %v", err)
	}
	clock.advanceTo(created.NominationEnd.Add(time.Minute))
	for _, voter := range voters {
		if _, err := module.Handler.RegisterVoterHandler(ctx, created.ElectionID, voter); err != nil {
			t.Fatalf("register %s failed: %v", voter, err)
		}
	}
	clock.advanceTo(created.VotingStart.Add(time.Minute))
	return created
}

func TestCastVoteHappyPath(t *testing.T) {
	module, clock := newLedger(map[string]int64{"0xvoter1": 100, "0xvoter2": 40})
	ctx := context.Background()
	created := seedVotingElection(t, module, clock, "0xvoter1", "0xvoter2")

	cast, err := module.Handler.CastVoteHandler(ctx, created.ElectionID, "0xvoter1", httptransport.CastVoteRequest{CandidateID: 1})
	if err != nil {
		t.Fatalf("cast failed: %v", err)
	}
	if cast.Weight != 100 {
		t.Fatalf("expected weight 100, got %d", cast.Weight)
	}

	if _, err := module.Handler.CastVoteHandler(ctx, created.ElectionID, "0xvoter2", httptransport.CastVoteRequest{CandidateID: 2}); err != nil {
		t.Fatalf("second cast failed: %v", err)
	}

	results, err := module.Handler.ResultsHandler(ctx, created.ElectionID)
	if err != nil {
		t.Fatalf("results failed: %v", err)
	}
	if results.TotalVotes != 140 {
		t.Fatalf("expected total 140, got %d", results.TotalVotes)
	}
	if results.Items[0].VoteCount != 100 || results.Items[1].VoteCount != 40 {
		t.Fatalf("unexpected tallies: %+v", results.Items)
	}

	var sum int64
	for _, row := range results.Items {
		sum += row.VoteCount
	}
	if sum != results.TotalVotes {
		t.Fatalf("tally conservation broken: rows sum %d, total %d", sum, results.TotalVotes)
	}

	voter, err := module.Handler.GetVoterHandler(ctx, created.ElectionID, "0xvoter1")
	if err != nil {
		t.Fatalf("get voter failed: %v", err)
	}
	if !voter.HasVoted || voter.VotedCandidateID == nil || *voter.VotedCandidateID != 1 {
		t.Fatalf("expected latched voter record for candidate 1, got %+v", voter)
	}
	if voter.WeightAtVoteTime == nil || *voter.WeightAtVoteTime != 100 {
		t.Fatalf("expected frozen weight 100, got %+v", voter.WeightAtVoteTime)
	}
}

func TestCastVoteRejectionOrder(t *testing.T) {
	module, clock := newLedger(map[string]int64{"0xvoter1": 100, "0xbroke": 0})
	ctx := context.Background()
	created := seedVotingElection(t, module, clock, "0xvoter1", "0xbroke")

	// Unknown candidate beats registration state: 0xnobody is unregistered
	// too, but the candidate check runs first.
	_, err := module.Handler.CastVoteHandler(ctx, created.ElectionID, "0xnobody", httptransport.CastVoteRequest{CandidateID: 99})
	if !errors.Is(err, domainerrors.ErrUnknownCandidate) {
		t.Fatalf("expected unknown candidate, got %v", err)
	}

	_, err = module.Handler.CastVoteHandler(ctx, created.ElectionID, "0xnobody", httptransport.CastVoteRequest{CandidateID: 1})
	if !errors.Is(err, domainerrors.ErrNotRegistered) {
		t.Fatalf("expected not registered, got %v", err)
	}

	_, err = module.Handler.CastVoteHandler(ctx, created.ElectionID, "0xbroke", httptransport.CastVoteRequest{CandidateID: 1})
	if !errors.Is(err, domainerrors.ErrNoVotingPower) {
		t.Fatalf("expected no voting power, got %v", err)
	}

	if _, err := module.Handler.CastVoteHandler(ctx, created.ElectionID, "0xvoter1", httptransport.CastVoteRequest{CandidateID: 1}); err != nil {
		t.Fatalf("cast failed: %v", err)
	}
	_, err = module.Handler.CastVoteHandler(ctx, created.ElectionID, "0xvoter1", httptransport.CastVoteRequest{CandidateID: 2})
	if !errors.Is(err, domainerrors.ErrAlreadyVoted) {
		t.Fatalf("expected already voted, got %v", err)
	}

	// Rejections leave no partial effects.
	results, err := module.Handler.ResultsHandler(ctx, created.ElectionID)
	if err != nil {
		t.Fatalf("results failed: %v", err)
	}
	if results.TotalVotes != 100 {
		t.Fatalf("expected only the one accepted vote, got total %d", results.TotalVotes)
	}

	clock.advanceTo(created.VotingEnd)
	_, err = module.Handler.CastVoteHandler(ctx, created.ElectionID, "0xbroke", httptransport.CastVoteRequest{CandidateID: 1})
	if !errors.Is(err, domainerrors.ErrPhaseViolation) {
		t.Fatalf("expected phase violation after voting ends, got %v", err)
	}
}

func TestCastVoteWeightIsFrozenAtCastTime(t *testing.T) {
	balances := map[string]int64{"0xvoter1": 70}
	module, clock := newLedger(balances)
	ctx := context.Background()
	created := seedVotingElection(t, module, clock, "0xvoter1")

	if _, err := module.Handler.CastVoteHandler(ctx, created.ElectionID, "0xvoter1", httptransport.CastVoteRequest{CandidateID: 1}); err != nil {
		t.Fatalf("cast failed: %v", err)
	}

	// A later balance change must not disturb the recorded weight.
	balances["0xvoter1"] = 5
	voter, err := module.Handler.GetVoterHandler(ctx, created.ElectionID, "0xvoter1")
	if err != nil {
		t.Fatalf("get voter failed: %v", err)
	}
	if voter.WeightAtVoteTime == nil || *voter.WeightAtVoteTime != 70 {
		t.Fatalf("expected frozen weight 70, got %+v", voter.WeightAtVoteTime)
	}
	results, err := module.Handler.ResultsHandler(ctx, created.ElectionID)
	if err != nil {
		t.Fatalf("results failed: %v", err)
	}
	if results.TotalVotes != 70 {
		t.Fatalf("expected total 70, got %d", results.TotalVotes)
	}
}

func TestDeactivateElection(t *testing.T) {
	module, clock := newLedger(nil)
	ctx := context.Background()

	created, err := module.Handler.CreateElectionHandler(ctx, "0xalice", defaultSchedule())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err = module.Handler.DeactivateElectionHandler(ctx, created.ElectionID, "0xalice")
	if !errors.Is(err, domainerrors.ErrPhaseViolation) {
		t.Fatalf("expected phase violation before voting ends, got %v", err)
	}

	clock.advanceTo(created.VotingEnd.Add(time.Minute))
	first, err := module.Handler.DeactivateElectionHandler(ctx, created.ElectionID, "0xalice")
	if err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	if first.Active || first.Replayed {
		t.Fatalf("expected fresh deactivation, got %+v", first)
	}

	replay, err := module.Handler.DeactivateElectionHandler(ctx, created.ElectionID, "0xalice")
	if err != nil {
		t.Fatalf("replayed deactivate failed: %v", err)
	}
	if !replay.Replayed {
		t.Fatal("expected idempotent replay to be flagged")
	}

	view, err := module.Handler.GetElectionHandler(ctx, created.ElectionID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if view.Phase != "ended" || view.Active {
		t.Fatalf("expected inactive ended election, got phase %s active %v", view.Phase, view.Active)
	}
}

func TestGetUnknownElection(t *testing.T) {
	module, _ := newLedger(nil)
	ctx := context.Background()

	if _, err := module.Handler.GetElectionHandler(ctx, 42); !errors.Is(err, domainerrors.ErrElectionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := module.Handler.ListCandidatesHandler(ctx, 42); !errors.Is(err, domainerrors.ErrElectionNotFound) {
		t.Fatalf("expected not found for candidates of unknown election, got %v", err)
	}
}

func TestUnregisteredVoterProjection(t *testing.T) {
	module, clock := newLedger(nil)
	ctx := context.Background()
	created := seedVotingElection(t, module, clock)

	voter, err := module.Handler.GetVoterHandler(ctx, created.ElectionID, "0xghost")
	if err != nil {
		t.Fatalf("get voter failed: %v", err)
	}
	if voter.Registered || voter.HasVoted {
		t.Fatalf("expected zero record for unknown voter, got %+v", voter)
	}
	if voter.VotedCandidateID != nil || voter.WeightAtVoteTime != nil {
		t.Fatalf("expected empty latch fields, got %+v", voter)
	}
}

func TestEligibilityMirrorsCastVote(t *testing.T) {
	module, clock := newLedger(map[string]int64{"0xvoter1": 100, "0xbroke": 0})
	ctx := context.Background()
	created := seedVotingElection(t, module, clock, "0xvoter1", "0xbroke")

	report, err := module.Handler.EligibilityHandler(ctx, created.ElectionID, "0xvoter1")
	if err != nil {
		t.Fatalf("eligibility failed: %v", err)
	}
	if !report.CanVote || report.VoteReason != "ok" {
		t.Fatalf("expected voter1 eligible, got %+v", report)
	}
	if report.CanNominate || report.NominateReason != "phase_violation" {
		t.Fatalf("expected nomination closed during voting, got %+v", report)
	}
	if report.VotingPower != 100 {
		t.Fatalf("expected voting power 100, got %d", report.VotingPower)
	}

	broke, err := module.Handler.EligibilityHandler(ctx, created.ElectionID, "0xbroke")
	if err != nil {
		t.Fatalf("eligibility failed: %v", err)
	}
	if broke.CanVote || broke.VoteReason != "no_voting_power" {
		t.Fatalf("expected no voting power reason, got %+v", broke)
	}

	ghost, err := module.Handler.EligibilityHandler(ctx, created.ElectionID, "0xghost")
	if err != nil {
		t.Fatalf("eligibility failed: %v", err)
	}
	if ghost.CanVote || ghost.VoteReason != "not_registered" {
		t.Fatalf("expected not registered reason, got %+v", ghost)
	}

	if _, err := module.Handler.CastVoteHandler(ctx, created.ElectionID, "0xvoter1", httptransport.CastVoteRequest{CandidateID: 1}); err != nil {
		t.Fatalf("cast failed: %v", err)
	}
	after, err := module.Handler.EligibilityHandler(ctx, created.ElectionID, "0xvoter1")
	if err != nil {
		t.Fatalf("eligibility failed: %v", err)
	}
	if after.CanVote || after.VoteReason != "already_voted" {
		t.Fatalf("expected already voted reason, got %+v", after)
	}
}

func TestAddressCasingIsCanonicalized(t *testing.T) {
	module, clock := newLedger(map[string]int64{"0xvoter1": 50})
	ctx := context.Background()

	created, err := module.Handler.CreateElectionHandler(ctx, "0xalice", defaultSchedule())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// One principal, many spellings. Every path must collapse to one record.
	clock.advanceTo(created.NominationStart.Add(time.Minute))
	if _, err := module.Handler.NominateHandler(ctx, created.ElectionID, "0xcand1", httptransport.NominateRequest{Name: "Ada"}); err != nil {
		t.Fatalf("nominate failed: %v", err)
	}
	_, err = module.Handler.NominateHandler(ctx, created.ElectionID, "0xCAND1", httptransport.NominateRequest{Name: "Ada Again"})
	if !errors.Is(err, domainerrors.ErrDuplicateCandidacy) {
		t.Fatalf("expected duplicate candidacy for recased nominator, got %v", err)
	}

	clock.advanceTo(created.NominationEnd.Add(time.Minute))
	first, err := module.Handler.RegisterVoterHandler(ctx, created.ElectionID, "0xVoter1")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if !first.Registered || first.Replayed {
		t.Fatalf("expected fresh registration, got %+v", first)
	}
	replay, err := module.Handler.RegisterVoterHandler(ctx, created.ElectionID, "0xvoter1")
	if err != nil {
		t.Fatalf("recased register failed: %v", err)
	}
	if !replay.Replayed {
		t.Fatal("expected recased registration to replay the existing record")
	}

	clock.advanceTo(created.VotingStart.Add(time.Minute))
	cast, err := module.Handler.CastVoteHandler(ctx, created.ElectionID, "0xvoter1", httptransport.CastVoteRequest{CandidateID: 1})
	if err != nil {
		t.Fatalf("cast failed: %v", err)
	}
	if cast.Weight != 50 {
		t.Fatalf("expected weight 50, got %d", cast.Weight)
	}
	_, err = module.Handler.CastVoteHandler(ctx, created.ElectionID, "0xVOTER1", httptransport.CastVoteRequest{CandidateID: 1})
	if !errors.Is(err, domainerrors.ErrAlreadyVoted) {
		t.Fatalf("expected already voted for recased voter, got %v", err)
	}

	results, err := module.Handler.ResultsHandler(ctx, created.ElectionID)
	if err != nil {
		t.Fatalf("results failed: %v", err)
	}
	if results.TotalVotes != 50 {
		t.Fatalf("expected the single vote to count once, got total %d", results.TotalVotes)
	}
}

func TestCastVoteSerializesConcurrentCasts(t *testing.T) {
	module, clock := newLedger(map[string]int64{"0xvoter1": 60})
	ctx := context.Background()
	created := seedVotingElection(t, module, clock, "0xvoter1")

	const casters = 16
	errs := make(chan error, casters)
	var wg sync.WaitGroup
	for i := 0; i < casters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := module.Handler.CastVoteHandler(ctx, created.ElectionID, "0xvoter1", httptransport.CastVoteRequest{CandidateID: 1})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var accepted, alreadyVoted int
	for err := range errs {
		switch {
		case err == nil:
			accepted++
		case errors.Is(err, domainerrors.ErrAlreadyVoted):
			alreadyVoted++
		default:
			t.Fatalf("unexpected cast error: %v", err)
		}
	}
	if accepted != 1 || alreadyVoted != casters-1 {
		t.Fatalf("expected exactly one accepted cast, got %d accepted and %d already voted", accepted, alreadyVoted)
	}

	results, err := module.Handler.ResultsHandler(ctx, created.ElectionID)
	if err != nil {
		t.Fatalf("results failed: %v", err)
	}
	if results.TotalVotes != 60 || results.Items[0].VoteCount != 60 {
		t.Fatalf("expected the single weight counted once, got total %d tallies %+v", results.TotalVotes, results.Items)
	}

	voter, err := module.Handler.GetVoterHandler(ctx, created.ElectionID, "0xvoter1")
	if err != nil {
		t.Fatalf("get voter failed: %v", err)
	}
	if !voter.HasVoted || voter.WeightAtVoteTime == nil || *voter.WeightAtVoteTime != 60 {
		t.Fatalf("expected one latched vote of weight 60, got %+v", voter)
	}
}
