package shows

import (
	"time"

	"circustix/internal/layout"
)

func mustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

// Fixtures is the storefront catalog
func Fixtures() []Show {
	return []Show{
		{
			ID:              "1",
			Title:           "Cirque du Mystique",
			Description:     "A journey into a world of magic and wonder.",
			LongDescription: "Cirque du Mystique blends breathtaking acrobatics with enchanting illusions, creating a spectacle that will leave you spellbound. Follow the story of a young hero as they traverse a mystical realm filled with curious creatures and powerful sorcerers. Perfect for all ages.",
			Date:            mustTime("2024-10-26T20:00:00Z"),
			Venue:           "Grand Arena, Las Vegas",
			Price:           75.0,
			Blueprint:       layout.BigTopBlueprint,
			TourStops: []TourStop{
				{
					ID:        "lv",
					City:      "Las Vegas",
					Venue:     "Grand Arena",
					Address:   "3799 S Las Vegas Blvd, Las Vegas, NV",
					DateRange: "Oct 26 - Oct 27",
					Performances: []Performance{
						{ID: "p1", Date: mustTime("2024-10-26T16:30:00Z"), TimeLabel: "Sat Oct 26 - 4:30 PM"},
						{ID: "p2", Date: mustTime("2024-10-26T20:00:00Z"), TimeLabel: "Sat Oct 26 - 8:00 PM"},
						{ID: "p3", Date: mustTime("2024-10-27T14:00:00Z"), TimeLabel: "Sun Oct 27 - 2:00 PM"},
					},
				},
				{
					ID:        "phx",
					City:      "Phoenix",
					Venue:     "Desert Pavilion",
					Address:   "201 E Jefferson St, Phoenix, AZ",
					DateRange: "Nov 2 - Nov 3",
					Performances: []Performance{
						{ID: "p1", Date: mustTime("2024-11-02T19:00:00Z"), TimeLabel: "Sat Nov 2 - 7:00 PM"},
						{ID: "p2", Date: mustTime("2024-11-03T15:00:00Z"), TimeLabel: "Sun Nov 3 - 3:00 PM"},
					},
				},
			},
		},
		{
			ID:              "2",
			Title:           "Acrobatic Marvels",
			Description:     "Heart-stopping stunts and incredible feats of strength.",
			LongDescription: "Prepare to be on the edge of your seat with Acrobatic Marvels. This high-energy show features world-class gymnasts, aerialists, and contortionists performing seemingly impossible feats. It's a thrilling showcase of human potential and physical artistry.",
			Date:            mustTime("2024-11-15T19:30:00Z"),
			Venue:           "The Big Top, Orlando",
			Price:           60.0,
			Blueprint:       layout.BigTopBlueprint,
			TourStops: []TourStop{
				{
					ID:        "orl",
					City:      "Orlando",
					Venue:     "The Big Top",
					Address:   "9800 International Dr, Orlando, FL",
					DateRange: "Nov 15 - Nov 17",
					Performances: []Performance{
						{ID: "p1", Date: mustTime("2024-11-15T19:30:00Z"), TimeLabel: "Fri Nov 15 - 7:30 PM"},
						{ID: "p2", Date: mustTime("2024-11-16T14:00:00Z"), TimeLabel: "Sat Nov 16 - 2:00 PM"},
						{ID: "p3", Date: mustTime("2024-11-17T13:00:00Z"), TimeLabel: "Sun Nov 17 - 1:00 PM"},
					},
				},
			},
		},
		{
			ID:              "3",
			Title:           "Clown Town Follies",
			Description:     "Laugh-out-loud comedy for the whole family.",
			LongDescription: "Get ready for a barrel of laughs with the Clown Town Follies! Our hilarious troupe of clowns will charm you with their classic gags, silly antics, and surprising talents. It's a joyful, lighthearted show that proves laughter is the best medicine.",
			Date:            mustTime("2024-12-01T14:00:00Z"),
			Venue:           "Comedy Tent, Chicago",
			Price:           45.0,
			Blueprint:       layout.BigTopBlueprint,
		},
		{
			ID:              "4",
			Title:           "The Alchemist's Dream",
			Description:     "A spectacular fusion of circus and storytelling.",
			LongDescription: "Enter the laboratory of a whimsical alchemist in this narrative-driven circus show. Combining dance, puppetry, and high-flying acts, The Alchemist's Dream tells a captivating story of creation, ambition, and the magic of discovery.",
			Date:            mustTime("2025-01-20T20:00:00Z"),
			Venue:           "Royal Theater, New York",
			Price:           90.0,
			Blueprint:       layout.BigTopBlueprint,
		},
	}
}
