package main

import (
	"context"
	"flag"
	"os"
	"strconv"

	"dncsweep/internal/adapters/crm"
	"dncsweep/internal/adapters/dnc"
	"dncsweep/internal/modkit"
	"dncsweep/internal/modkit/module"
	"dncsweep/internal/platform/config"
	"dncsweep/internal/platform/logger"
	"dncsweep/internal/platform/store"

	applydom "dncsweep/internal/services/apply/domain"
	applymod "dncsweep/internal/services/apply/module"
	ledgerdom "dncsweep/internal/services/ledger/domain"
	ledgermod "dncsweep/internal/services/ledger/module"
	ledgerrepo "dncsweep/internal/services/ledger/repo"
	reportmod "dncsweep/internal/services/report/module"
	screendom "dncsweep/internal/services/screen/domain"
	screenmod "dncsweep/internal/services/screen/module"
)

func mustSetEnv(k, v string) {
	if v != "" {
		_ = os.Setenv(k, v)
	}
}

func main() {
	var (
		client  = flag.String("client", "", "client tenant to reconcile (falls back to CLIENT env)")
		workers = flag.Int("workers", 0, "screening concurrency (>=1)")
		page    = flag.Int("page", 0, "roster page size")
		dryRun  = flag.Bool("dry-run", false, "screen and record only, no CRM mutation")
	)
	flag.Parse()

	// Pass CLI flags into the env namespaces the modules read
	mustSetEnv("CLIENT", *client)
	if *workers > 0 {
		mustSetEnv("CORE_SCREEN_WORKERS", strconv.Itoa(*workers))
	}
	if *page > 0 {
		mustSetEnv("CORE_SCREEN_PAGE_SIZE", strconv.Itoa(*page))
	}

	root := config.New()
	l := logger.Get()

	tenant := root.MayString("CLIENT", "")
	if tenant == "" {
		l.Fatal().Msg("client is required (flag -client or CLIENT env)")
	}

	ctx := context.Background()

	st, err := store.Open(ctx, store.FromConf(root, "dncsweep-run"), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	if err := st.Guard(ctx); err != nil {
		l.Panic().Err(err).Msg("store not ready")
	}

	if err := ledgerrepo.EnsureSchema(ctx, st.PG); err != nil {
		l.Panic().Err(err).Msg("ledger schema failed")
	}

	// External collaborators; missing CRM property config panics here,
	// before any run work starts
	crmClient := crm.NewClient(crm.FromConf(root))
	supplier := dnc.NewLoader(dnc.FromConf(root))

	deps := modkit.Deps{
		Cfg: root,
		PG:  st.PG,
		Log: *l,
	}

	sm := screenmod.New(deps, screenmod.Options{}, modkit.WithPorts(screendom.Ports{
		Roster:      crmClient,
		Suppression: supplier,
	}))
	am := applymod.New(deps, applymod.Options{}, modkit.WithPorts(applydom.Ports{
		Store: crmClient,
	}))
	lm := ledgermod.New(deps, ledgermod.Options{})
	rm := reportmod.New(deps)

	for _, m := range []module.Module{sm, am, lm, rm} {
		module.Register(m.Name(), m.Ports())
	}

	screener := module.MustPortsOf[screenmod.Ports](sm).Screener
	applier := module.MustPortsOf[applymod.Ports](am).Applier
	ledgerPorts := module.MustPortsOf[ledgermod.Ports](lm)
	reportPorts, ok := module.PortsAs[reportmod.Ports]("report")
	if !ok {
		l.Fatal().Msg("report ports not registered")
	}
	sink := reportPorts.Sink

	run := ledgerdom.NewRunSummary(tenant)
	ctx = logger.WithRun(ctx, run.RunID.String(), tenant)

	rep, err := screener.Screen(ctx)
	if err != nil {
		l.Fatal().Err(err).Msg("screening failed")
	}
	fillScreenCounts(run, rep)

	var applyErr error
	if *dryRun {
		logger.C(ctx).Info().Msg("dry run, skipping apply")
	} else {
		out, err := applier.Apply(ctx, rep.Verdicts)
		applyErr = err
		if out != nil {
			fillApplyCounts(run, out)
		}
	}

	// The summary is recorded no matter how apply ended; partial runs
	// leave an honest trail
	if err := ledgerPorts.Recorder.Record(ctx, run); err != nil {
		l.Fatal().Err(err).Msg("run record failed")
	}

	attachment, err := ledgerPorts.Audit.ExportAudit(run)
	if err != nil {
		logger.C(ctx).Warn().Err(err).Msg("audit export failed")
	}
	if err := sink.Send(ctx, run, attachment); err != nil {
		logger.C(ctx).Warn().Err(err).Msg("report sink failed")
	}

	if applyErr != nil {
		l.Fatal().Err(applyErr).Msg("apply aborted")
	}
}

func fillScreenCounts(run *ledgerdom.RunSummary, rep *screendom.Report) {
	run.Verdicts = rep.Verdicts
	run.Warnings = rep.Warnings
	run.Counts.Checked = rep.Counts.Checked
	run.Counts.Matched = rep.Counts.Matched
	run.Counts.TierExact = rep.Counts.TierExact
	run.Counts.TierDomain = rep.Counts.TierDomain
	run.Counts.TierFuzzy = rep.Counts.TierFuzzy
	run.Counts.AutoExcluded = rep.Counts.AutoExcluded
	run.Counts.Review = rep.Counts.Review
	run.Counts.SuppressionLoaded = rep.Counts.SuppressionLoaded
	run.Counts.SuppressionSkipped = rep.Counts.SuppressionSkipped
}

func fillApplyCounts(run *ledgerdom.RunSummary, out *applydom.Outcome) {
	for _, r := range out.Results {
		run.Updates = append(run.Updates, ledgerdom.UpdateRecord{
			TargetID:    r.TargetID,
			TargetType:  string(r.TargetType),
			Status:      string(r.Status),
			ErrorDetail: r.ErrorDetail,
		})
	}
	run.Counts.CompaniesUpdated = out.CompaniesUpdated
	run.Counts.CompaniesAlreadySet = out.CompaniesAlreadySet
	run.Counts.CompaniesFailed = out.CompaniesFailed
	run.Counts.ContactsUpdated = out.ContactsUpdated
	run.Counts.ContactsAlreadySet = out.ContactsAlreadySet
	run.Counts.ContactsFailed = out.ContactsFailed
}
