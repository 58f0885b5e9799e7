package bot

import (
	"github.com/BTreeMap/PetDiary/internal/menu"
	"github.com/BTreeMap/PetDiary/internal/models"
	"github.com/BTreeMap/PetDiary/internal/router"
)

// routes registers the dispatch table. Order is priority: commands, then
// rules bound to a wizard step, then state-agnostic buttons, then the main
// menu and finally the fallback.
func (b *Bot) routes() {
	rt, e := b.router, b.engine

	rt.OnMessage("start", router.Command("start"), b.start)
	rt.OnMessage("help", router.Command("help"), b.help)
	rt.OnMessage("cancel", router.Command("cancel"), e.Cancel)
	rt.OnMessage("reminders", router.Command("reminders"), b.reminders)

	// Steps answered by typing.
	rt.OnMessage("pet name", router.Not(router.HasMedia()), e.PetName, models.StateAddPetName)
	rt.OnMessage("pet breed", router.Not(router.HasMedia()), e.PetBreed, models.StateAddPetBreed)
	rt.OnMessage("entry custom date", router.Not(router.HasMedia()), e.EntryCustomDate, models.StateAddEntryCustomDate)
	rt.OnMessage("entry text", router.Not(router.HasMedia()), e.EntryText, models.StateAddEntryText)
	rt.OnMessage("vaccine custom delay", router.Not(router.HasMedia()), e.VaccineCustomDelay, models.StateVaccineCustomDelay)
	rt.OnMessage("attach media", router.HasMedia(), e.AttachMedia, models.StateAttachAdding)
	rt.OnMessage("attach no media", router.Any(), e.AttachNoMedia, models.StateAttachAdding)
	rt.OnMessage("wizard reprompt", router.Any(), e.Reprompt, models.WizardStates()...)

	// Steps answered by pressing a button.
	rt.OnCallback("pet species", router.Prefix("species:"), e.PetSpecies, models.StateAddPetSpecies)
	rt.OnCallback("pet breed skip", router.Exact(menu.BreedSkip), e.SkipBreed, models.StateAddPetBreed)
	rt.OnCallback("entry type", router.Prefix("entry:type:"), e.EntryType, models.StateAddEntryType)
	rt.OnCallback("entry date", router.Prefix("entry:date:"), e.EntryDate, models.StateAddEntryDateChoice)
	rt.OnCallback("vaccine choice", router.Prefix("vrem:vaccine:"), e.VaccineChoice, models.StateVaccineChooseVaccine)
	rt.OnCallback("vaccine delay", router.Prefix("vrem:delay:"), e.VaccineDelay, models.StateVaccineChooseDelay)
	rt.OnCallback("attach done", router.Exact(menu.AttachDone), e.AttachDone, models.StateAttachAdding)

	rt.OnCallback("pet set active", router.Prefix("pet:set_active:"), b.setActivePet)
	rt.OnCallback("pet card", router.Prefix("pet:"), b.petCard)
	rt.OnCallback("pets add", router.Exact(menu.PetsAdd), e.StartAddPet)
	rt.OnCallback("pets list", router.Exact(menu.PetsList), b.petsList)
	rt.OnCallback("pets back", router.Exact(menu.PetsBack), b.mainMenu)
	rt.OnCallback("entry attach", router.Prefix("entry:attach:"), e.StartAttach)
	rt.OnCallback("entry view", router.Prefix("entry:view:"), b.entryCard)
	rt.OnCallback("entry files", router.Prefix("entry:files:"), b.entryFiles)
	rt.OnCallback("file send", router.Prefix("file:send:"), b.sendFile)
	rt.OnCallback("history back", router.Exact(menu.HistoryBack), b.history)
	rt.OnCallback("summary", router.Prefix("summary:days:"), b.summary)
	rt.OnCallback("vaccine reminder", router.Prefix("vrem:start:"), e.StartVaccineReminder)
	rt.OnCallback("meds repeat", router.Prefix("mrem:create:"), e.MedsRepeat)

	rt.OnMessage("menu pets", router.Exact(menu.ButtonPets), b.petsList)
	rt.OnMessage("menu entry", router.Exact(menu.ButtonEntry), e.StartAddEntry)
	rt.OnMessage("menu history", router.Exact(menu.ButtonHistory), b.history)
	rt.OnMessage("menu summary", router.Exact(menu.ButtonSummary), b.summaryMenu)
	rt.OnMessage("menu settings", router.Exact(menu.ButtonSettings), b.settings)

	rt.OnMessage("unknown", router.Any(), b.unknown)
}
