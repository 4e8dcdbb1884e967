package enrich_test

import (
	"context"
	"errors"
	"testing"

	"github.com/hireloop/jobsync/internal/adapters/profile"
	"github.com/hireloop/jobsync/internal/domain/enrich"
	"github.com/hireloop/jobsync/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestResolver_IdentityDefaults(t *testing.T) {
	ctx := context.Background()

	Convey("Given an identity with every field empty", t, func() {
		r := enrich.New()
		p := r.Resolve(ctx, model.Identity{})

		Convey("Then the profile is fully populated with defaults", func() {
			So(p.Name, ShouldEqual, enrich.DefaultName)
			So(p.Email, ShouldEqual, "")
			So(p.Phone, ShouldEqual, "")
			So(p.Skills, ShouldNotBeNil)
			So(p.Skills, ShouldBeEmpty)
		})
	})

	Convey("Given a populated identity and no fetcher", t, func() {
		r := enrich.New()
		p := r.Resolve(ctx, model.Identity{
			UserID:      "u1",
			DisplayName: "Ada",
			Email:       "ada@example.com",
			Phone:       "+1 555 0100",
		})

		Convey("Then identity fields carry through unchanged", func() {
			So(p.Name, ShouldEqual, "Ada")
			So(p.Email, ShouldEqual, "ada@example.com")
			So(p.Phone, ShouldEqual, "+1 555 0100")
		})
	})
}

func TestResolver_ProfileOverlay(t *testing.T) {
	ctx := context.Background()

	Convey("Given a stored profile document", t, func() {
		fetcher := profile.NewMemoryFetcher()
		fetcher.Put("u1", model.Document{
			"skills":     []any{"Go", "SQL", "go"},
			"experience": "5 years backend",
			"education":  "BSc",
			"resume_ref": "resumes/u1.pdf",
		})
		r := enrich.New(enrich.WithFetcher(fetcher))

		Convey("When resolving", func() {
			p := r.Resolve(ctx, model.Identity{UserID: "u1", DisplayName: "Ada"})

			Convey("Then profile fields overlay the defaults", func() {
				So(p.Name, ShouldEqual, "Ada")
				So(p.Skills, ShouldResemble, []string{"Go", "SQL"})
				So(p.Experience, ShouldEqual, "5 years backend")
				So(p.Education, ShouldEqual, "BSc")
				So(p.ResumeRef, ShouldEqual, "resumes/u1.pdf")
			})
		})
	})

	Convey("Given a partial profile document", t, func() {
		fetcher := profile.NewMemoryFetcher()
		fetcher.Put("u1", model.Document{"education": "PhD"})
		r := enrich.New(enrich.WithFetcher(fetcher))
		p := r.Resolve(ctx, model.Identity{UserID: "u1"})

		Convey("Then unset fields keep their step-one defaults", func() {
			So(p.Name, ShouldEqual, enrich.DefaultName)
			So(p.Education, ShouldEqual, "PhD")
			So(p.Skills, ShouldBeEmpty)
		})
	})
}

func TestResolver_FetchFailure(t *testing.T) {
	ctx := context.Background()

	Convey("Given a fetcher that fails outright", t, func() {
		fetcher := profile.NewMemoryFetcher()
		fetcher.Fail(errors.New("deadline exceeded"))
		r := enrich.New(enrich.WithFetcher(fetcher))

		Convey("When resolving", func() {
			p := r.Resolve(ctx, model.Identity{UserID: "u1", DisplayName: "Ada"})

			Convey("Then the identity-only profile comes back instead of an error", func() {
				So(p.Name, ShouldEqual, "Ada")
				So(p.Skills, ShouldNotBeNil)
				So(p.Skills, ShouldBeEmpty)
			})
		})
	})

	Convey("Given a user with no stored profile", t, func() {
		r := enrich.New(enrich.WithFetcher(profile.NewMemoryFetcher()))
		p := r.Resolve(ctx, model.Identity{UserID: "missing"})

		Convey("Then not-found degrades the same way", func() {
			So(p.Name, ShouldEqual, enrich.DefaultName)
			So(p.Skills, ShouldBeEmpty)
		})
	})
}

func TestNormalizeSkills(t *testing.T) {
	Convey("Given the skills field in its various wire shapes", t, func() {
		Convey("Then a string slice is trimmed and deduped in order", func() {
			got := enrich.NormalizeSkills([]string{" Go ", "SQL", "go", ""})
			So(got, ShouldResemble, []string{"Go", "SQL"})
		})

		Convey("Then a delimited string splits on commas and semicolons", func() {
			got := enrich.NormalizeSkills("go, sql; docker,go")
			So(got, ShouldResemble, []string{"go", "sql", "docker"})
		})

		Convey("Then an []any keeps only its string elements", func() {
			got := enrich.NormalizeSkills([]any{"go", 3, nil, "sql"})
			So(got, ShouldResemble, []string{"go", "sql"})
		})

		Convey("Then unknown shapes yield nil", func() {
			So(enrich.NormalizeSkills(42), ShouldBeNil)
			So(enrich.NormalizeSkills(nil), ShouldBeNil)
		})
	})
}
