// Package sampledata tiene el set de muestra que se sirve cuando el store o un
// servicio externo no responden. Todo lo que sale de acá va marcado como
// degrade.SourceSample; nunca se persiste.
package sampledata

import (
	"time"

	"pawsera/internal/domain/activity"
	"pawsera/internal/domain/appointments"
	"pawsera/internal/domain/pets"
	"pawsera/internal/domain/roles"
	"pawsera/internal/domain/users"
	"pawsera/internal/ports/weather"
)

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr[T any](v T) *T { return &v }

func Users() []users.User {
	owner := func(id, name, email, city, phone, created string) users.User {
		return users.User{ID: id, Name: name, Email: email, Role: roles.PetOwner, City: city, Phone: phone, CreatedAt: ts(created), UpdatedAt: ts(created)}
	}
	vet := func(id, name, email, spec, clinic, phone string, status roles.VetStatus, created, approved string) users.User {
		u := users.User{
			ID: id, Name: name, Email: email, Role: roles.Vet, Status: status,
			Specialization: spec, Clinic: clinic, Phone: phone, City: "Toronto",
			CreatedAt: ts(created), UpdatedAt: ts(created),
		}
		if approved != "" {
			u.ApprovedAt = ptr(ts(approved))
			u.UpdatedAt = ts(approved)
			u.ReviewedBy = "admin1"
		}
		return u
	}

	return []users.User{
		owner("owner1", "Sarah Johnson", "sarah.johnson@email.com", "Toronto", "+1 (416) 555-0123", "2024-01-15T10:30:00Z"),
		owner("owner2", "Michael Chen", "michael.chen@email.com", "Vancouver", "+1 (604) 555-0456", "2024-02-20T14:15:00Z"),
		owner("owner3", "Emily Rodriguez", "emily.rodriguez@email.com", "Montreal", "+1 (514) 555-0789", "2024-03-10T09:45:00Z"),
		owner("owner4", "David Thompson", "david.thompson@email.com", "Calgary", "+1 (403) 555-0321", "2024-01-25T16:20:00Z"),

		vet("vet1", "Dr. Olivia Bennett", "dr.olivia.bennett@vetclinic.com", "Small Animal Medicine", "Downtown Animal Hospital", "+1 (416) 555-1001", roles.VetApproved, "2024-01-05T08:00:00Z", "2024-01-06T10:00:00Z"),
		vet("vet2", "Dr. Ethan Walker", "dr.ethan.walker@vetclinic.com", "Emergency Medicine", "Emergency Pet Care Center", "+1 (416) 555-1002", roles.VetApproved, "2024-01-10T09:30:00Z", "2024-01-11T11:15:00Z"),
		vet("vet3", "Dr. Ava Mitchell", "dr.ava.mitchell@vetclinic.com", "Dermatology", "Skin & Coat Veterinary Clinic", "+1 (416) 555-1003", roles.VetApproved, "2024-02-01T13:45:00Z", "2024-02-02T09:30:00Z"),
		vet("vet4", "Dr. Noah Thompson", "dr.noah.thompson@vetclinic.com", "Surgery", "Advanced Surgical Center", "+1 (416) 555-1004", roles.VetPending, "2024-03-15T15:20:00Z", ""),
		vet("vet5", "Dr. Sophia Hayes", "dr.sophia.hayes@vetclinic.com", "Internal Medicine", "Comprehensive Pet Care", "+1 (416) 555-1005", roles.VetPending, "2024-03-20T11:10:00Z", ""),

		{ID: "admin1", Name: "Ragini Shirwalkar", Email: "ragini@pawsera.com", Role: roles.Admin, CreatedAt: ts("2024-01-01T00:00:00Z"), UpdatedAt: ts("2024-01-01T00:00:00Z")},
	}
}

func Pets() []pets.Pet {
	pet := func(id, owner, name string, sp pets.Species, breed string, age int, g pets.Gender, kg float64, color, chip, created string) pets.Pet {
		return pets.Pet{
			ID: id, OwnerID: owner, Name: name, Species: sp, Breed: breed, Age: age, Gender: g,
			Weight: ptr(kg), Color: color, Microchip: chip,
			CreatedAt: ts(created), UpdatedAt: ts(created),
		}
	}
	return []pets.Pet{
		pet("pet1", "owner1", "Buddy", pets.SpeciesDog, "Golden Retriever", 3, pets.GenderMale, 29.5, "Golden", "CHIP001234567", "2024-01-15T10:30:00Z"),
		pet("pet2", "owner1", "Whiskers", pets.SpeciesCat, "Persian", 2, pets.GenderFemale, 3.6, "White", "CHIP001234568", "2024-01-15T10:30:00Z"),
		pet("pet3", "owner2", "Max", pets.SpeciesDog, "German Shepherd", 5, pets.GenderMale, 34, "Black and Tan", "CHIP001234569", "2024-02-20T14:15:00Z"),
		pet("pet4", "owner3", "Luna", pets.SpeciesCat, "Maine Coon", 4, pets.GenderFemale, 5.4, "Black", "CHIP001234570", "2024-03-10T09:45:00Z"),
		pet("pet5", "owner4", "Charlie", pets.SpeciesDog, "Labrador Retriever", 1, pets.GenderMale, 20.4, "Chocolate", "CHIP001234571", "2024-01-25T16:20:00Z"),
	}
}

func Appointments() []appointments.Appointment {
	apt := func(id, petID, petName, owner, vetID, vetName, day, clock, purpose string, st appointments.Status, notes, created string) appointments.Appointment {
		d, _ := time.Parse(appointments.DateLayout, day)
		start, _ := time.Parse(appointments.DateLayout+" "+appointments.TimeLayout, day+" "+clock)
		return appointments.Appointment{
			ID: id, PetID: petID, PetName: petName, OwnerID: owner, VetID: vetID, VetName: vetName,
			Date: d, Time: clock, StartsAt: start,
			Purpose: purpose, Notes: notes, Status: st,
			CreatedBy: owner, CreatedAt: ts(created), UpdatedAt: ts(created),
		}
	}
	out := []appointments.Appointment{
		apt("apt1", "pet1", "Buddy", "owner1", "vet1", "Dr. Olivia Bennett", "2024-04-15", "10:00", "Annual Checkup", appointments.StatusConfirmed, "Regular annual examination and vaccination update", "2024-03-20T14:30:00Z"),
		apt("apt2", "pet2", "Whiskers", "owner1", "vet3", "Dr. Ava Mitchell", "2024-04-18", "14:30", "Skin Allergy Consultation", appointments.StatusPending, "Follow-up on skin irritation and allergy testing", "2024-03-22T09:15:00Z"),
		apt("apt3", "pet3", "Max", "owner2", "vet2", "Dr. Ethan Walker", "2024-04-12", "09:00", "Hip Dysplasia Follow-up", appointments.StatusConfirmed, "X-ray review and pain management assessment", "2024-03-18T16:45:00Z"),
		apt("apt4", "pet4", "Luna", "owner3", "vet1", "Dr. Olivia Bennett", "2024-04-20", "11:30", "Dental Cleaning", appointments.StatusPending, "Annual dental cleaning and oral health check", "2024-03-25T13:20:00Z"),
		apt("apt5", "pet5", "Charlie", "owner4", "vet2", "Dr. Ethan Walker", "2024-04-10", "15:00", "Puppy Vaccination", appointments.StatusCompleted, "Second round of puppy vaccinations completed successfully", "2024-03-15T10:00:00Z"),
		apt("apt6", "pet1", "Buddy", "owner1", "vet4", "Dr. Noah Thompson", "2024-04-25", "08:00", "Surgery Consultation", appointments.StatusCancelled, "Cancelled due to scheduling conflict", "2024-03-28T14:00:00Z"),
	}
	appointments.SortByStart(out)
	return out
}

func Activity() []activity.Entry {
	return []activity.Entry{
		{ID: "activity1", Type: activity.TypeVetApproved, Message: "Vet account for Dr. Olivia Bennett approved", ActorID: "admin1", SubjectID: "vet1", CreatedAt: ts("2024-03-28T12:00:00Z")},
		{ID: "activity2", Type: activity.TypeUserRegistered, Message: "New user 'sarah.johnson@email.com' registered", SubjectID: "owner1", CreatedAt: ts("2024-03-28T09:00:00Z")},
		{ID: "activity3", Type: activity.TypeAppointmentBooked, Message: "Appointment scheduled for Buddy with Dr. Olivia Bennett", ActorID: "owner1", SubjectID: "apt1", CreatedAt: ts("2024-03-27T14:00:00Z")},
		{ID: "activity4", Type: activity.TypeUserRegistered, Message: "New vet 'Dr. Noah Thompson' registered - pending approval", SubjectID: "vet4", CreatedAt: ts("2024-03-26T14:00:00Z")},
	}
}

// Weather es el reporte fijo para cuando el proveedor no responde.
func Weather() weather.Report {
	return weather.Report{
		City:        "Toronto",
		Temperature: 18,
		Condition:   "Partly Cloudy",
		Humidity:    65,
		WindSpeed:   12,
	}
}
