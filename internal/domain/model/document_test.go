package model_test

import (
	"testing"

	model "github.com/hireloop/jobsync/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestListingFromDocument(t *testing.T) {
	convey.Convey("Given a fully populated listings document", t, func() {
		doc := model.Document{
			"id":                "j1",
			"title":             "Backend Engineer",
			"organization_id":   "c1",
			"organization_name": "Acme",
			"locality":          "Mumbai",
			"lat":               19.0,
			"lon":               72.8,
			"description":       "Build services",
			"requirements":      []any{"go", "sql"},
			"compensation":      "30-40 LPA",
			"category":          "engineering",
		}

		convey.Convey("When decoding", func() {
			l := model.ListingFromDocument(doc)

			convey.Convey("Then all fields map through", func() {
				convey.So(l.ID, convey.ShouldEqual, "j1")
				convey.So(l.Title, convey.ShouldEqual, "Backend Engineer")
				convey.So(l.OrganizationID, convey.ShouldEqual, "c1")
				convey.So(l.RawOrgName, convey.ShouldEqual, "Acme")
				convey.So(l.Requirements, convey.ShouldResemble, []string{"go", "sql"})
				convey.So(l.Coordinates, convey.ShouldNotBeNil)
				convey.So(l.Coordinates.Lat, convey.ShouldEqual, 19.0)
				convey.So(l.Coordinates.Lon, convey.ShouldEqual, 72.8)
			})
		})
	})

	convey.Convey("Given a document with no coordinates", t, func() {
		l := model.ListingFromDocument(model.Document{"id": "j2", "lat": 19.0})

		convey.Convey("Then coordinates stay nil unless both axes are present", func() {
			convey.So(l.Coordinates, convey.ShouldBeNil)
		})
	})

	convey.Convey("Given a document with wrongly typed fields", t, func() {
		doc := model.Document{
			"id":           42,
			"title":        true,
			"requirements": "go,sql",
			"lat":          "19.0",
			"lon":          72.8,
		}
		l := model.ListingFromDocument(doc)

		convey.Convey("Then decoding degrades to zero values instead of panicking", func() {
			convey.So(l.ID, convey.ShouldEqual, "")
			convey.So(l.Title, convey.ShouldEqual, "")
			convey.So(l.Requirements, convey.ShouldBeNil)
			convey.So(l.Coordinates, convey.ShouldBeNil)
		})
	})
}

func TestOrganizationFromDocument(t *testing.T) {
	convey.Convey("Given an organizations document", t, func() {
		org := model.OrganizationFromDocument(model.Document{
			"id":           "c1",
			"display_name": "Acme",
			"verified":     true,
			"logo_ref":     "logos/acme.png",
		})

		convey.Convey("Then fields map through", func() {
			convey.So(org.ID, convey.ShouldEqual, "c1")
			convey.So(org.DisplayName, convey.ShouldEqual, "Acme")
			convey.So(org.Verified, convey.ShouldBeTrue)
			convey.So(org.LogoRef, convey.ShouldEqual, "logos/acme.png")
		})
	})

	convey.Convey("Given an empty document", t, func() {
		org := model.OrganizationFromDocument(model.Document{})

		convey.Convey("Then verified defaults to false", func() {
			convey.So(org.Verified, convey.ShouldBeFalse)
			convey.So(org.DisplayName, convey.ShouldEqual, "")
		})
	})
}

func TestDocumentStringsField(t *testing.T) {
	convey.Convey("Given documents with differently shaped list fields", t, func() {
		convey.Convey("Then []string passes through", func() {
			d := model.Document{"requirements": []string{"a", "b"}}
			convey.So(d.StringsField("requirements"), convey.ShouldResemble, []string{"a", "b"})
		})

		convey.Convey("Then []any keeps only string elements", func() {
			d := model.Document{"requirements": []any{"a", 1, "b", nil}}
			convey.So(d.StringsField("requirements"), convey.ShouldResemble, []string{"a", "b"})
		})

		convey.Convey("Then other shapes yield nil", func() {
			d := model.Document{"requirements": "a,b"}
			convey.So(d.StringsField("requirements"), convey.ShouldBeNil)
		})
	})
}
