package enrollment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"openhackathon/internal/model"
)

func TestAggregate_City(t *testing.T) {
	items := []model.Enrollment{
		enrollmentOf("u1", "Beijing Office", model.EnrollmentStatusApproved, "2022-03-01T00:00:00Z"),
		enrollmentOf("u2", "", model.EnrollmentStatusApproved, "2022-03-01T00:00:00Z"),
	}

	statistic := Aggregate(items)

	assert.Equal(t, map[string]int{"Beijing": 1}, statistic.City)
	assert.Equal(t, map[string]int{"2022-03-01": 2}, statistic.CreatedAt, "blank cities still count elsewhere")
}

func TestCityKey(t *testing.T) {
	tests := []struct {
		city string
		want string
	}{
		{city: "Beijing Office", want: "Beijing"},
		{city: "New York", want: "New"},
		{city: "Hangzhou, Zhejiang", want: "Hangzhou"},
		{city: "北京 海淀", want: "北京"},
		{city: "", want: ""},
		{city: "  ", want: ""},
		{city: "-Shenzhen", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.city, func(t *testing.T) {
			assert.Equal(t, tt.want, cityKey(tt.city))
		})
	}
}

func TestAggregate_Extensions(t *testing.T) {
	items := []model.Enrollment{
		enrollmentOf("u1", "", model.EnrollmentStatusApproved, "2022-03-01T00:00:00Z",
			model.Extension{Name: "color", Value: "red,blue"},
			model.Extension{Name: "site", Value: "https://example.com"},
		),
		enrollmentOf("u2", "", model.EnrollmentStatusApproved, "2022-03-01T00:00:00Z",
			model.Extension{Name: "color", Value: "red"},
			model.Extension{Name: "site", Value: "see http://other.test/page"},
		),
	}

	statistic := Aggregate(items)

	assert.Equal(t, map[string]int{"red": 2, "blue": 1}, statistic.Extensions["color"])
	assert.Equal(t, map[string]int{LinkBucket: 2}, statistic.Extensions["site"])
	assert.NotContains(t, statistic.Extensions["site"], "https://example.com")
}

func TestAggregate_Empty(t *testing.T) {
	statistic := Aggregate(nil)

	assert.Empty(t, statistic.City)
	assert.Empty(t, statistic.CreatedAt)
	assert.Empty(t, statistic.Extensions)
}

func TestStatistic_Clone(t *testing.T) {
	original := Statistic{
		City:       map[string]int{"Beijing": 1},
		Extensions: map[string]map[string]int{"color": {"red": 1}},
	}

	clone := original.Clone()
	clone.City["Beijing"] = 5
	clone.Extensions["color"]["red"] = 5

	assert.Equal(t, 1, original.City["Beijing"])
	assert.Equal(t, 1, original.Extensions["color"]["red"])
}
