package course

import "fmt"

// Prompt construction for the generation operations. Swedish is the primary
// authoring language; any other language value falls back to the English
// variants.

func titlePrompts(req TitleRequest) (system, user string) {
	if req.Language == "sv" {
		system = `Du är en expert på att skapa engagerande kurstitlar för vårdutbildning. ` +
			`Generera exakt 5 alternativa kurstitlar baserade på användarens input. ` +
			`Varje titel ska vara professionell, tydlig och attraktiv för vårdpersonal. ` +
			"Svara ENDAST med giltig JSON i detta format:\n" +
			`{"suggestions": [{"id": "1", "title": "Titel här", "explanation": "Kort förklaring varför denna titel fungerar bra"}]}`
	} else {
		system = `You are an expert at creating engaging course titles for healthcare education. ` +
			`Generate exactly 5 alternative course titles based on the user's input. ` +
			`Each title should be professional, clear, and appealing to healthcare professionals. ` +
			"Respond ONLY with valid JSON in this format:\n" +
			`{"suggestions": [{"id": "1", "title": "Title here", "explanation": "Brief explanation of why this title works well"}]}`
	}

	user = fmt.Sprintf("Original course title/topic: %q", req.Title)
	return system, user
}

func outlinePrompts(req OutlineRequest) (system, user string) {
	if req.Language == "sv" {
		system = `Du är en expert på att strukturera vårdutbildningar. ` +
			fmt.Sprintf("Skapa en kursöversikt med exakt %d moduler. ", req.NumModules) +
			"Varje modul ska ha:\n" +
			"- En beskrivande titel\n" +
			"- En detaljerad beskrivning\n" +
			"- Uppskattat antal minuter\n" +
			"- 3-5 nyckelämnen som ska täckas\n\n" +
			"Svara ENDAST med giltig JSON i detta format:\n" +
			`{"modules": [{"id": "module-1", "title": "Modul titel", "description": "Detaljerad beskrivning av modulen", "estimated_duration": 15, "key_topics": ["Ämne 1", "Ämne 2", "Ämne 3"]}], "total_duration": 75}`
	} else {
		system = `You are an expert at structuring healthcare education. ` +
			fmt.Sprintf("Create a course outline with exactly %d modules. ", req.NumModules) +
			"Each module should have:\n" +
			"- A descriptive title\n" +
			"- A detailed description\n" +
			"- Estimated duration in minutes\n" +
			"- 3-5 key topics to be covered\n\n" +
			"Respond ONLY with valid JSON in this format:\n" +
			`{"modules": [{"id": "module-1", "title": "Module title", "description": "Detailed description of the module", "estimated_duration": 15, "key_topics": ["Topic 1", "Topic 2", "Topic 3"]}], "total_duration": 75}`
	}

	user = fmt.Sprintf("Course title: %q", req.Title)
	if req.AdditionalContext != "" {
		user += "\n\nAdditional context: " + req.AdditionalContext
	}
	return system, user
}

func scriptPrompts(req ScriptRequest) (system, user string) {
	if req.Language == "sv" {
		system = `Du är en expert på att skriva pedagogiska manus för vårdutbildningar. ` +
			fmt.Sprintf("Skapa ett detaljerat manus för en modul som ska ta cirka %d minuter. ", req.TargetDuration) +
			"Manuset ska vara:\n" +
			"- Professionellt och engagerande\n" +
			fmt.Sprintf("- I %s ton\n", req.Tone) +
			"- Strukturerat i logiska sektioner (3-5 sektioner)\n" +
			"- Med tydliga övergångar mellan sektioner\n" +
			"- Inkludera slide markers (naturliga brytpunkter för slides)\n\n" +
			"Svara ENDAST med giltig JSON i detta format:\n" +
			`{"module_id": "module-1", "module_title": "Modulens titel", "sections": [{"id": "section-1", "title": "Sektion titel", "content": "Fullständigt manus för denna sektion...", "slide_markers": ["Key Point 1", "Key Point 2"]}], "total_words": 1500, "estimated_duration": 10, "citations": ["Källa 1", "Källa 2"]}`
	} else {
		system = `You are an expert at writing educational scripts for healthcare education. ` +
			fmt.Sprintf("Create a detailed script for a module that should take approximately %d minutes. ", req.TargetDuration) +
			"The script should be:\n" +
			"- Professional and engaging\n" +
			fmt.Sprintf("- In %s tone\n", req.Tone) +
			"- Structured in logical sections (3-5 sections)\n" +
			"- With clear transitions between sections\n" +
			"- Include slide markers (natural breakpoints for slides)\n\n" +
			"Respond ONLY with valid JSON in this format:\n" +
			`{"module_id": "module-1", "module_title": "Module title", "sections": [{"id": "section-1", "title": "Section title", "content": "Complete script for this section...", "slide_markers": ["Key Point 1", "Key Point 2"]}], "total_words": 1500, "estimated_duration": 10, "citations": ["Source 1", "Source 2"]}`
	}

	user = fmt.Sprintf("Module title: %q\nModule description: %s\nCourse: %q",
		req.ModuleTitle, req.ModuleDescription, req.CourseTitle)
	if req.AdditionalContext != "" {
		user += "\n\nAdditional context: " + req.AdditionalContext
	}
	return system, user
}

func structurePrompts(req StructureRequest) (system, user string) {
	system = "You are an instructional design expert. Analyze the course topic and recommend an optimal structure.\n\n" +
		"Respond in JSON format:\n" +
		`{"recommended_modules": 5, "recommended_duration": 60, "complexity": "intermediate", "target_audience": "professionals", "key_topics": ["topic1", "topic2"], "learning_objectives": ["objective1", "objective2"], "suggestions": ["suggestion1"]}`

	description := req.Description
	if description == "" {
		description = "N/A"
	}
	audience := req.TargetAudience
	if audience == "" {
		audience = "General"
	}
	user = fmt.Sprintf("Course title: %s\nDescription: %s\nTarget audience: %s",
		req.Title, description, audience)
	return system, user
}
